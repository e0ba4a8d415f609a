package model

import "fmt"

// CriticalError is the one promoted diagnostic kind: it aborts
// processing of the current route within the current city but lets the
// city orchestrator continue with the next route. It is a distinct Go
// error type rather than a panic/recover.
type CriticalError struct {
	Element ElementRef
	Message string
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("critical: %s: %s", e.Element, e.Message)
}

// NewCriticalError constructs a CriticalError.
func NewCriticalError(element ElementRef, format string, args ...interface{}) *CriticalError {
	return &CriticalError{Element: element, Message: fmt.Sprintf(format, args...)}
}
