package homework

import (
	"encoding/json"
	"math"
)

// Response keys of the homework API.
const (
	KeyHomeworks   = "homeworks"
	KeyCurrentDate = "current_date"
)

// CheckResponse extracts the homework list from an API answer.
// The list is returned as is and may be empty.
func CheckResponse(resp map[string]any) ([]any, error) {
	raw, ok := resp[KeyHomeworks]
	if !ok || raw == nil {
		return nil, NewMalformedResponse("отсутствие ожидаемых ключей в ответе API", nil)
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, NewMalformedResponse(`ключ "homeworks" приходит не в виде списка`, nil)
	}
	return homeworks, nil
}

// CurrentDate reads the server timestamp used to advance the poll cursor.
func CurrentDate(resp map[string]any) (int64, bool) {
	switch v := resp[KeyCurrentDate].(type) {
	case float64:
		if v <= 0 || v >= math.MaxInt64 || v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	default:
		return 0, false
	}
}
