package homework

// Status is the review state reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Record field names used by the homework API.
const (
	FieldName   = "homework_name"
	FieldStatus = "status"
)

// Verdicts maps every documented status to the sentence sent to the chat.
var Verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the catalog sentence for s.
func Verdict(s Status) (string, bool) {
	v, ok := Verdicts[s]
	return v, ok
}
