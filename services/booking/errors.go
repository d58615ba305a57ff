package booking

import "fmt"

type LedgerError struct {
	Code    string
	Message string
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewLedgerError(msg string) error {
	return &LedgerError{
		Code:    "ledgerError",
		Message: msg,
	}
}
