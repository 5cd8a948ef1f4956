package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Success
const (
	TesSUCCESS Result = 0
)

// tec codes: the transaction failed against current state. Nothing is
// written, but the failure is final for this submission.
const (
	TecNO_TARGET          Result = 138
	TecNO_PERMISSION      Result = 139
	TecNO_ENTRY           Result = 140
	TecINTERNAL           Result = 144
	TecDUPLICATE          Result = 149
	TecTOO_SOON           Result = 152
	TecINSUFFICIENT_FUNDS Result = 159

	TecPROPOSAL_STATUS      Result = 170
	TecSAME_STATUS          Result = 171
	TecCURRENCY_USED        Result = 172
	TecBAD_OUTCOME          Result = 173
	TecOVERFLOW             Result = 174
	TecNO_REAL_SOLUTION     Result = 175
	TecNOT_ORACLE_NODE      Result = 176
	TecINSUFFICIENT_WEIGHT  Result = 177
	TecNO_RESULT            Result = 178
	TecREPORT_NOT_SUCCEEDED Result = 179
	TecSLASH_MISMATCH       Result = 180
	TecSLASH_FINISHED       Result = 181
	TecSLASH_NOT_FINISHED   Result = 182
	TecSLASHED              Result = 183
	TecDUPLICATE_SEQUENCE   Result = 184
	TecBAD_FEE_RATE         Result = 185
	TecNO_LIQUIDITY         Result = 186
)

// tef codes: the transaction cannot apply now or later.
const (
	TefFAILURE  Result = -199
	TefBAD_AUTH Result = -196
	TefINTERNAL Result = -192
	TefPAST_SEQ Result = -190
)

// tem codes: the transaction is malformed.
const (
	TemMALFORMED     Result = -299
	TemBAD_AMOUNT    Result = -298
	TemBAD_CURRENCY  Result = -297
	TemBAD_FEE       Result = -295
	TemBAD_SIGNATURE Result = -282
	TemINVALID       Result = -277
	TemREDUNDANT     Result = -275
	TemUNKNOWN       Result = -264
)

// ter codes: retry later.
const (
	TerPRE_SEQ Result = -92
)

type resultInfo struct {
	token   string
	message string
}

var results = map[Result]resultInfo{
	TesSUCCESS: {"tesSUCCESS", "The transaction was applied."},

	TecNO_TARGET:          {"tecNO_TARGET", "Target is not eligible for this operation."},
	TecNO_PERMISSION:      {"tecNO_PERMISSION", "No permission to perform requested operation."},
	TecNO_ENTRY:           {"tecNO_ENTRY", "No matching entry found."},
	TecINTERNAL:           {"tecINTERNAL", "An internal error has occurred during processing."},
	TecDUPLICATE:          {"tecDUPLICATE", "Entry already exists for this account."},
	TecTOO_SOON:           {"tecTOO_SOON", "Time is too close to the current time."},
	TecINSUFFICIENT_FUNDS: {"tecINSUFFICIENT_FUNDS", "Not enough funds available to complete requested transaction."},

	TecPROPOSAL_STATUS:      {"tecPROPOSAL_STATUS", "Proposal is not in a status that allows this operation."},
	TecSAME_STATUS:          {"tecSAME_STATUS", "Proposal already has the requested status."},
	TecCURRENCY_USED:        {"tecCURRENCY_USED", "Currency is an outcome or liquidity token."},
	TecBAD_OUTCOME:          {"tecBAD_OUTCOME", "Currency is not an outcome of the proposal."},
	TecOVERFLOW:             {"tecOVERFLOW", "balance overflow"},
	TecNO_REAL_SOLUTION:     {"tecNO_REAL_SOLUTION", "no real solution"},
	TecNOT_ORACLE_NODE:      {"tecNOT_ORACLE_NODE", "Account is not an active oracle node."},
	TecINSUFFICIENT_WEIGHT:  {"tecINSUFFICIENT_WEIGHT", "Vote weight exceeds the usable stake."},
	TecNO_RESULT:            {"tecNO_RESULT", "Proposal has no result."},
	TecREPORT_NOT_SUCCEEDED: {"tecREPORT_NOT_SUCCEEDED", "No successful report against the result."},
	TecSLASH_MISMATCH:       {"tecSLASH_MISMATCH", "slash number mismatch"},
	TecSLASH_FINISHED:       {"tecSLASH_FINISHED", "Slashing already finished."},
	TecSLASH_NOT_FINISHED:   {"tecSLASH_NOT_FINISHED", "Slashing has not finished."},
	TecSLASHED:              {"tecSLASHED", "Locked stake is subject to slashing."},
	TecDUPLICATE_SEQUENCE:   {"tecDUPLICATE_SEQUENCE", "Stake snapshot sequence already used."},
	TecBAD_FEE_RATE:         {"tecBAD_FEE_RATE", "Fee rate exceeds the maximum."},
	TecNO_LIQUIDITY:         {"tecNO_LIQUIDITY", "Pool has no liquidity."},

	TefFAILURE:  {"tefFAILURE", "Failed to apply."},
	TefBAD_AUTH: {"tefBAD_AUTH", "Transaction's public key is not authorized."},
	TefINTERNAL: {"tefINTERNAL", "Internal error."},
	TefPAST_SEQ: {"tefPAST_SEQ", "This sequence number has already passed."},

	TemMALFORMED:     {"temMALFORMED", "Malformed transaction."},
	TemBAD_AMOUNT:    {"temBAD_AMOUNT", "Can only send positive amounts."},
	TemBAD_CURRENCY:  {"temBAD_CURRENCY", "Malformed: Bad currency."},
	TemBAD_FEE:       {"temBAD_FEE", "Invalid fee rate."},
	TemBAD_SIGNATURE: {"temBAD_SIGNATURE", "Malformed: Bad signature."},
	TemINVALID:       {"temINVALID", "The transaction is ill-formed."},
	TemREDUNDANT:     {"temREDUNDANT", "The transaction is redundant."},
	TemUNKNOWN:       {"temUNKNOWN", "The transaction requires logic that is not implemented yet."},

	TerPRE_SEQ: {"terPRE_SEQ", "Missing/inapplicable prior transaction."},
}

// String returns the result token, e.g. "tecNO_ENTRY".
func (r Result) String() string {
	if info, ok := results[r]; ok {
		return info.token
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// Message returns the human-readable description of the result.
func (r Result) Message() string {
	if info, ok := results[r]; ok {
		return info.message
	}
	return "Unknown result."
}

// ResultFromToken looks up a result by its token.
func ResultFromToken(token string) (Result, bool) {
	for r, info := range results {
		if info.token == token {
			return r, true
		}
	}
	return 0, false
}

func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if the result is a tec code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if the result is a tef code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if the result is a tem code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if the result is a ter code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
