package usecase

// DomainError is an expected business failure (lead missing, template
// missing, send refused). The engine converts these into lead-state
// transitions and log entries; they never escape as panics.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (database, queue).
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// Domain error codes used across the engine.
const (
	CodeLeadNotFound    = "LEAD_NOT_FOUND"
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeTemplateMissing = "TEMPLATE_MISSING"
	CodeSendFailed      = "SEND_FAILED"
	CodeAlreadyRunning  = "SEQUENCE_ALREADY_RUNNING"
	CodeNoFields        = "NO_VALID_FIELDS"
	CodeValidation      = "VALIDATION_ERROR"
)
