package shared

// DomainError is the error type every layer above the domain can rely
// on: a short machine-readable code plus a message safe to surface. The
// HTTP layer maps codes to status codes; nothing inspects messages.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is the shared lookup-miss error. Repositories return it
// for any id or code that resolves to no row.
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
