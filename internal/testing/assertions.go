package testing

import (
	"testing"

	"github.com/LeJamon/goPredictd/internal/core/tx/sle"
	"github.com/stretchr/testify/require"
)

// RequireBalance asserts that an account holds the expected free balance of currency.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, currency uint32, expected uint64) {
	t.Helper()
	actual := env.Balance(acc, currency)
	require.Equal(t, expected, actual,
		"Account %s balance of %d mismatch: expected %d, got %d",
		acc.Name, currency, expected, actual)
}

// RequireReserved asserts that an account has the expected reserved balance of currency.
func RequireReserved(t *testing.T, env *TestEnv, acc *Account, currency uint32, expected uint64) {
	t.Helper()
	actual := env.Reserved(acc, currency)
	require.Equal(t, expected, actual,
		"Account %s reserved %d mismatch: expected %d, got %d",
		acc.Name, currency, expected, actual)
}

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, tesSUCCESS, result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction result indicates failure with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
}

// RequireStatus asserts a proposal's lifecycle status.
func RequireStatus(t *testing.T, env *TestEnv, proposalID uint64, expected sle.Status) {
	t.Helper()
	p := env.Proposal(proposalID)
	require.Equal(t, expected, p.Status,
		"Proposal %d status mismatch: expected %s, got %s", proposalID, expected, p.Status)
}

// RequirePoolConserved asserts that the market module holds exactly what the
// pool's running totals say it holds.
func RequirePoolConserved(t *testing.T, env *TestEnv, proposalID uint64) {
	t.Helper()
	p := env.Proposal(proposalID)
	pool := env.Pool(proposalID)
	module := env.ModuleMarket()
	for i, outcome := range p.Outcomes {
		require.Equal(t, pool.TotalOptional[i], env.BalanceOf(module, outcome),
			"Proposal %d outcome %d pool total does not match module balance", proposalID, i)
	}
}
