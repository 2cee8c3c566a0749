package types

import "fmt"

// ValidationError marks a rejected request input. Handlers surface Msg
// verbatim with a 400; everything else maps to a 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
