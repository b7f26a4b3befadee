package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError carries the upstream API's own error envelope alongside the
// HTTP status it arrived with.
type UpstreamError struct {
	Status  int
	Code    int
	Subcode int
	Type    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d (code %d, subcode %d): %s", e.Status, e.Code, e.Subcode, e.Message)
}

// Transient error codes per the upstream API docs: unknown (1, 2), request
// limit reached (4, 17, 32) and custom-level throttling (613).
var transientCodes = map[int]bool{
	1:   true,
	2:   true,
	4:   true,
	17:  true,
	32:  true,
	613: true,
}

// IsTransient reports whether err is an upstream error worth retrying:
// a rate-limit-like code or a 5xx status. Everything else is permanent.
func IsTransient(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	if ue.Status >= http.StatusInternalServerError {
		return true
	}
	return transientCodes[ue.Code]
}
