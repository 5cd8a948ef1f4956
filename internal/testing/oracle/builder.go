// Package oracle provides builders and integration tests for the oracle
// consensus and dispute engine.
package oracle

import (
	"fmt"
	stdtesting "testing"

	"github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	"github.com/LeJamon/goPredictd/internal/testing"
)

// Stake builds a stake of amt.
func Stake(node *testing.Account, amt uint64) *oracle.Stake {
	return oracle.NewStake(node.ID, amt)
}

// Unstake builds an unstake of amt.
func Unstake(node *testing.Account, amt uint64) *oracle.Unstake {
	return oracle.NewUnstake(node.ID, amt)
}

// ReviewBuilder builds Review transactions.
type ReviewBuilder struct {
	node       *testing.Account
	proposalID uint64
	weight     uint64
	approve    bool
}

// Review starts an approving review by node.
func Review(node *testing.Account, proposalID uint64) *ReviewBuilder {
	return &ReviewBuilder{node: node, proposalID: proposalID, approve: true}
}

// Weight sets the vote weight.
func (b *ReviewBuilder) Weight(w uint64) *ReviewBuilder {
	b.weight = w
	return b
}

// Reject turns the vote into a rejection.
func (b *ReviewBuilder) Reject() *ReviewBuilder {
	b.approve = false
	return b
}

// Build constructs the Review transaction.
func (b *ReviewBuilder) Build() *oracle.Review {
	return oracle.NewReview(b.node.ID, b.proposalID, b.weight, b.approve)
}

// Upload builds a result upload signed by node.
func Upload(t *stdtesting.T, node *testing.Account, proposalID uint64, result uint32, weight uint64) *oracle.UploadResult {
	t.Helper()
	u, err := oracle.NewUploadResult(node.KeyPair, proposalID, result, weight)
	if err != nil {
		t.Fatalf("Failed to sign upload: %v", err)
	}
	return u
}

// Report builds a report bond of amt.
func Report(account *testing.Account, proposalID, amt uint64) *oracle.Report {
	return oracle.NewReport(account.ID, proposalID, amt)
}

// Slash builds an admin slash of target.
func Slash(admin *testing.Account, proposalID uint64, target *testing.Account) *oracle.Slash {
	return oracle.NewSlash(admin.ID, proposalID, target.ID)
}

// SlashFinish builds an admin slash completion.
func SlashFinish(admin *testing.Account, proposalID uint64) *oracle.SlashFinish {
	return oracle.NewSlashFinish(admin.ID, proposalID)
}

// TakeOut builds a reporter's bond and reward withdrawal.
func TakeOut(account *testing.Account, proposalID uint64) *oracle.TakeOut {
	return oracle.NewTakeOut(account.ID, proposalID)
}

// Unlock builds a node's lock release.
func Unlock(node *testing.Account, proposalID uint64) *oracle.Unlock {
	return oracle.NewUnlock(node.ID, proposalID)
}

// Nodes creates, funds and stakes count oracle nodes named prefix0..N.
func Nodes(t *stdtesting.T, env *testing.TestEnv, prefix string, count int, stake uint64) []*testing.Account {
	t.Helper()
	nodes := make([]*testing.Account, count)
	for i := range nodes {
		n := testing.NewAccount(fmt.Sprintf("%s%d", prefix, i))
		env.Fund(n)
		testing.RequireTxSuccess(t, env.Submit(Stake(n, stake)))
		nodes[i] = n
	}
	return nodes
}
