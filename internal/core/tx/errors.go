package tx

import (
	"errors"
	"strings"
	"sync"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/LeJamon/goPredictd/internal/core/ruler"
	"github.com/LeJamon/goPredictd/internal/core/tokens"
	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
)

type errorResult struct {
	err  error
	code Result
}

var (
	errorResultsMu sync.RWMutex
	errorResults   = []errorResult{
		{amount.ErrOverflow, TecOVERFLOW},
		{tokens.ErrInsufficientBalance, TecINSUFFICIENT_FUNDS},
		{tokens.ErrUnknownAsset, TecNO_ENTRY},
		{sle.ErrEntryNotFound, TecNO_ENTRY},
		{sle.ErrEntryExists, TecDUPLICATE},
		{ruler.ErrRoleNotSet, TecNO_TARGET},
	}
)

// RegisterErrorResult maps a package sentinel to a result code for
// ResultFromError. Feature packages call it from init.
func RegisterErrorResult(err error, code Result) {
	errorResultsMu.Lock()
	defer errorResultsMu.Unlock()
	// Feature sentinels are checked before the generic ones.
	errorResults = append([]errorResult{{err, code}}, errorResults...)
}

// ResultFromError maps an error returned by a state helper to a result.
// Unknown errors are tecINTERNAL.
func ResultFromError(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	errorResultsMu.RLock()
	defer errorResultsMu.RUnlock()
	for _, er := range errorResults {
		if errors.Is(err, er.err) {
			return er.code
		}
	}
	return TecINTERNAL
}

// parseValidationError extracts a tem result from a Validate error of the
// form "temX: message". Anything else is temINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()
	token, _, found := strings.Cut(msg, ":")
	if !found {
		token = msg
	}
	if r, ok := ResultFromToken(strings.TrimSpace(token)); ok && r.IsTem() {
		return r
	}
	return TemINVALID
}
