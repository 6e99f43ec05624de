package homework

// StatusRepository keeps the last notified status per homework name.
type StatusRepository interface {
	Get(name string) (Status, bool)
	Set(name string, status Status)
	Len() int
}
