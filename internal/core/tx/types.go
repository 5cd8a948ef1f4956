package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

const (
	TypeInvalid Type = 0xFFFF

	TypeTransfer Type = 0

	// Proposal registry
	TypeNewProposal Type = 10
	TypeSetStatus   Type = 11

	// Market pool
	TypeAddLiquidity     Type = 20
	TypeRemoveLiquidity  Type = 21
	TypeBuy              Type = 22
	TypeSell             Type = 23
	TypeRetrieval        Type = 24
	TypeSetResult        Type = 25
	TypeSetResultWhenEnd Type = 26

	// Oracle
	TypeStake        Type = 30
	TypeUnstake      Type = 31
	TypeReview       Type = 32
	TypeUploadResult Type = 33
	TypeReport       Type = 34
	TypeSlash        Type = 35
	TypeSlashFinish  Type = 36
	TypeTakeOut      Type = 37
	TypeUnlock       Type = 38

	TypeSetParams Type = 50
)

var typeNames = map[Type]string{
	TypeTransfer:         "Transfer",
	TypeNewProposal:      "NewProposal",
	TypeSetStatus:        "SetStatus",
	TypeAddLiquidity:     "AddLiquidity",
	TypeRemoveLiquidity:  "RemoveLiquidity",
	TypeBuy:              "Buy",
	TypeSell:             "Sell",
	TypeRetrieval:        "Retrieval",
	TypeSetResult:        "SetResult",
	TypeSetResultWhenEnd: "SetResultWhenEnd",
	TypeStake:            "Stake",
	TypeUnstake:          "Unstake",
	TypeReview:           "Review",
	TypeUploadResult:     "UploadResult",
	TypeReport:           "Report",
	TypeSlash:            "Slash",
	TypeSlashFinish:      "SlashFinish",
	TypeTakeOut:          "TakeOut",
	TypeUnlock:           "Unlock",
	TypeSetParams:        "SetParams",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the transaction type name
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for a transaction type name
func TypeFromName(name string) (Type, bool) {
	t, ok := typeByName[name]
	return t, ok
}
