package sle

import (
	"testing"

	"github.com/LeJamon/goPredictd/internal/core/ledger/keylet"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/stretchr/testify/require"
)

// mapView is the smallest LedgerView: a map with insert/update checks.
type mapView map[[32]byte][]byte

func (m mapView) Read(k keylet.Keylet) ([]byte, error) { return m[k.Key], nil }
func (m mapView) Exists(k keylet.Keylet) (bool, error) {
	_, ok := m[k.Key]
	return ok, nil
}
func (m mapView) Insert(k keylet.Keylet, data []byte) error {
	if _, ok := m[k.Key]; ok {
		return ErrEntryExists
	}
	m[k.Key] = data
	return nil
}
func (m mapView) Update(k keylet.Keylet, data []byte) error {
	if _, ok := m[k.Key]; !ok {
		return ErrEntryNotFound
	}
	m[k.Key] = data
	return nil
}
func (m mapView) Erase(k keylet.Keylet) error {
	delete(m, k.Key)
	return nil
}

func TestProposalPersistence(t *testing.T) {
	view := mapView{}
	owner := crypto.CalcAccountID([]byte("owner"))

	p := &Proposal{
		ID:            3,
		Title:         "Will it rain?",
		OutcomeLabels: [2]string{"yes", "no"},
		Status:        StatusFormalPrediction,
		Owner:         owner,
		Outcomes:      [2]uint32{5, 6},
		FeeRate:       2000,
	}
	require.NoError(t, WriteProposal(view, p))

	got, err := ReadProposal(view, 3)
	require.NoError(t, err)
	require.Equal(t, p, got)

	_, err = ReadProposal(view, 4)
	require.ErrorIs(t, err, ErrEntryNotFound)

	idx, ok := got.OutcomeIndex(6)
	require.True(t, ok)
	require.Equal(t, 1, idx)
	_, ok = got.OutcomeIndex(7)
	require.False(t, ok)
}

func TestSerializeIsCanonical(t *testing.T) {
	a, err := Serialize(&Tally{Approve: 1, Results: [2]uint64{2, 3}})
	require.NoError(t, err)
	b, err := Serialize(&Tally{Approve: 1, Results: [2]uint64{2, 3}})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	view := mapView{}
	k := keylet.Snapshot(crypto.AccountID{1}, 0)
	require.NoError(t, Create(view, k, &Snapshot{Height: 1, Balance: 10}))
	require.ErrorIs(t, Create(view, k, &Snapshot{Height: 2, Balance: 20}), ErrEntryExists)
}

func TestPoolFreezeOnce(t *testing.T) {
	p := &Pool{TotalMarket: 10, TotalOptional: [2]uint64{10, 10}, TotalLiquidity: 10, Fee: 1}
	require.True(t, p.Freeze())

	p.TotalMarket = 99
	require.False(t, p.Freeze())
	require.Equal(t, uint64(10), p.FinallyMarket)
}

func TestStatusNames(t *testing.T) {
	for s := StatusOriginalPrediction; s <= StatusEnd; s++ {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
	require.False(t, Status(9).Valid())
	_, err := ParseStatus("Nope")
	require.Error(t, err)
}

func TestTallyFlags(t *testing.T) {
	var tl Tally
	tl.SetTo(FlagConsent, true)
	tl.SetTo(FlagReviewTie, true)
	require.True(t, tl.Has(FlagConsent))
	tl.SetTo(FlagReviewTie, false)
	require.False(t, tl.Has(FlagReviewTie))
	require.True(t, tl.Has(FlagConsent))
}
