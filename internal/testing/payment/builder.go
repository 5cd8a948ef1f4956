// Package payment provides builders and integration tests for transfers.
package payment

import (
	"github.com/LeJamon/goPredictd/internal/core/tx/payment"
	"github.com/LeJamon/goPredictd/internal/testing"
)

// TransferBuilder provides a fluent interface for building Transfer transactions.
type TransferBuilder struct {
	from     *testing.Account
	to       *testing.Account
	currency uint32
	amount   uint64
}

// Pay creates a transfer of amount settlement currency.
func Pay(from, to *testing.Account, amount uint64) *TransferBuilder {
	return &TransferBuilder{
		from:     from,
		to:       to,
		currency: testing.SettlementCurrency,
		amount:   amount,
	}
}

// Currency sets the transferred currency.
func (b *TransferBuilder) Currency(c uint32) *TransferBuilder {
	b.currency = c
	return b
}

// Build constructs the Transfer transaction.
func (b *TransferBuilder) Build() *payment.Transfer {
	return payment.NewTransfer(b.from.ID, b.to.ID, b.currency, b.amount)
}
