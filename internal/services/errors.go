package services

import "errors"

// Common service errors
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrInvalidState      = errors.New("transición de estado inválida")
	ErrDuplicate         = errors.New("registro duplicado")
	ErrGardenNotFound    = errors.New("jardín no encontrado")
	ErrLineItemNotFound  = errors.New("partida no encontrada")
	ErrEmptySelection    = errors.New("debe seleccionar al menos un requerimiento")
	ErrMissingReception  = errors.New("el requerimiento no tiene fecha de recepción")
	ErrAlreadyInReport   = errors.New("el requerimiento ya pertenece a un informe de pago")
	ErrRequirementLinked = errors.New("el requerimiento está vinculado a una OT o informe de pago")
)

// ValidationError marks input that failed a business rule. Handlers map it
// to a 422 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ParseError marks malformed input data (dates, snapshots, spreadsheets).
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a parse error wrapping the underlying cause
func NewParseError(msg string, err error) *ParseError {
	return &ParseError{Message: msg, Err: err}
}
