package market

import (
	"math/rand"
	"testing"

	"github.com/LeJamon/goPredictd/internal/core/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteBuy(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		q, err := quoteBuy([2]uint64{100000, 100000}, 0, 31250, 2000)
		require.NoError(t, err)
		assert.Equal(t, uint64(6250), q.Fee)
		assert.Equal(t, uint64(25000), q.Net)
		assert.Equal(t, uint64(20000), q.Shrink)
		assert.Equal(t, uint64(45000), q.Output)
		assert.Equal(t, [2]uint64{80000, 125000}, q.Optional)
	})

	t.Run("second side", func(t *testing.T) {
		q, err := quoteBuy([2]uint64{100000, 100000}, 1, 31250, 2000)
		require.NoError(t, err)
		assert.Equal(t, [2]uint64{125000, 80000}, q.Optional)
	})

	t.Run("zero fee rate", func(t *testing.T) {
		q, err := quoteBuy([2]uint64{1000, 1000}, 0, 1000, 0)
		require.NoError(t, err)
		assert.Zero(t, q.Fee)
		assert.Equal(t, [2]uint64{500, 2000}, q.Optional)
		assert.Equal(t, uint64(1500), q.Output)
	})

	t.Run("rounds in favor of the pool", func(t *testing.T) {
		q, err := quoteBuy([2]uint64{1000, 1000}, 0, 3, 0)
		require.NoError(t, err)
		// ceil(1e6/1003) = 998
		assert.Equal(t, uint64(998), q.Optional[0])
		assert.GreaterOrEqual(t, amount.Product(q.Optional[0], q.Optional[1]).Uint64(), uint64(1000*1000))
	})
}

func TestQuoteSell(t *testing.T) {
	t.Run("undoes the worked example", func(t *testing.T) {
		q, err := quoteSell([2]uint64{80000, 125000}, 0, 45000, 2000)
		require.NoError(t, err)
		assert.Equal(t, uint64(20000), q.Growth)
		assert.Equal(t, uint64(25000), q.Burned)
		assert.Equal(t, uint64(5000), q.Fee)
		assert.Equal(t, uint64(20000), q.Payout)
		assert.Zero(t, q.Residue)
		assert.Equal(t, [2]uint64{100000, 100000}, q.Optional)
	})

	t.Run("selling more than the pool holds", func(t *testing.T) {
		q, err := quoteSell([2]uint64{100, 100}, 0, 1_000_000, 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, q.Burned, uint64(100))
		assert.Equal(t, uint64(1_000_000), q.Growth+q.Burned+q.Residue)
	})

	t.Run("empty side cannot be priced", func(t *testing.T) {
		_, err := quoteSell([2]uint64{0, 100}, 0, 0, 0)
		assert.ErrorIs(t, err, amount.ErrDivisionByZero)
	})
}

func TestSellGrowth(t *testing.T) {
	tests := []struct {
		name              string
		sold, other, sell uint64
		want              uint64
	}{
		{"positive b", 80000, 125000, 45000, 20000},
		{"negative b", 10, 10, 100, 90},
		{"zero sell", 500, 500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := sellGrowth(tt.sold, tt.other, tt.sell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, x)
		})
	}
}

func TestRoundTripLosesExactlyFees(t *testing.T) {
	start := [2]uint64{100000, 100000}
	buy, err := quoteBuy(start, 0, 31250, 2000)
	require.NoError(t, err)

	sell, err := quoteSell(buy.Optional, 0, buy.Output, 2000)
	require.NoError(t, err)

	loss := 31250 - sell.Payout
	assert.Equal(t, buy.Fee+sell.Fee, loss)
	assert.LessOrEqual(t, sell.Payout, uint64(31250))
}

func TestProductNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := [2]uint64{100000, 100000}
	held := [2]uint64{}

	for i := 0; i < 500; i++ {
		before := amount.Product(pool[0], pool[1])
		idx := rng.Intn(2)
		if rng.Intn(2) == 0 || held[idx] == 0 {
			q, err := quoteBuy(pool, idx, uint64(rng.Intn(5000)+1), 300)
			require.NoError(t, err)
			pool = q.Optional
			held[idx] += q.Output
		} else {
			amt := uint64(rng.Int63n(int64(held[idx]))) + 1
			q, err := quoteSell(pool, idx, amt, 300)
			require.NoError(t, err)
			pool = q.Optional
			held[idx] -= amt - q.Residue
		}
		after := amount.Product(pool[0], pool[1])
		require.False(t, after.Lt(before), "step %d: product decreased", i)
	}
}
