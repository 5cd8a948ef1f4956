package testing

import (
	"strings"

	"github.com/LeJamon/goPredictd/internal/core/tx"
)

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the transaction engine result code (e.g., "tesSUCCESS").
	Code string

	// Success indicates whether the transaction was successfully applied.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Events holds the events the transaction emitted, if it was applied.
	Events []tx.Event
}

const tesSUCCESS = "tesSUCCESS"

func resultFromApply(res tx.ApplyResult) TxResult {
	return TxResult{
		Code:    res.Result.String(),
		Success: res.Applied,
		Message: res.Message,
		Events:  res.Events,
	}
}

// IsSuccess returns true if the result code indicates success.
func (r TxResult) IsSuccess() bool {
	return r.Code == tesSUCCESS
}

// IsClaimed returns true for tec codes: the transaction was well formed but
// failed against state.
func (r TxResult) IsClaimed() bool {
	return strings.HasPrefix(r.Code, "tec")
}

// IsRetry returns true if the result code indicates a retry is possible.
func (r TxResult) IsRetry() bool {
	return strings.HasPrefix(r.Code, "ter")
}

// IsMalformed returns true if the result code indicates the transaction is malformed.
func (r TxResult) IsMalformed() bool {
	return strings.HasPrefix(r.Code, "tem")
}

// IsFailed returns true if the result code indicates a failure.
func (r TxResult) IsFailed() bool {
	return strings.HasPrefix(r.Code, "tef")
}

// Event returns the first emitted event of type typ.
func (r TxResult) Event(typ string) (tx.Event, bool) {
	for _, ev := range r.Events {
		if ev.Type == typ {
			return ev, true
		}
	}
	return tx.Event{}, false
}
