package amount

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	v, err := Add(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)

	_, err = Add(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrOverflow)
	require.EqualError(t, err, "balance overflow")
}

func TestSub(t *testing.T) {
	v, err := Sub(5, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(2), v)

	_, err = Sub(3, 5)
	require.ErrorIs(t, err, ErrUnderflow)

	require.Equal(t, uint64(0), SubClamp(3, 5))
	require.Equal(t, uint64(2), SubClamp(5, 3))
}

func TestMul(t *testing.T) {
	v, err := Mul(0, math.MaxUint64)
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = Mul(math.MaxUint64/2+1, 2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestMulDiv(t *testing.T) {
	t.Run("wide intermediate", func(t *testing.T) {
		v, err := MulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64)
		require.NoError(t, err)
		require.Equal(t, uint64(math.MaxUint64), v)
	})

	t.Run("truncates", func(t *testing.T) {
		v, err := MulDiv(10, 1, 3)
		require.NoError(t, err)
		require.Equal(t, uint64(3), v)

		v, err = MulDivCeil(10, 1, 3)
		require.NoError(t, err)
		require.Equal(t, uint64(4), v)
	})

	t.Run("overflowing quotient", func(t *testing.T) {
		_, err := MulDiv(math.MaxUint64, 2, 1)
		require.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("zero divisor", func(t *testing.T) {
		_, err := MulDiv(1, 1, 0)
		require.ErrorIs(t, err, ErrDivisionByZero)
	})
}

func TestDivCeil(t *testing.T) {
	v, err := DivCeil(uint256.NewInt(10_000_000_000), 125_000)
	require.NoError(t, err)
	require.Equal(t, uint64(80_000), v)

	v, err = DivCeil(uint256.NewInt(10), 4)
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)
}

func TestFeeAndPercent(t *testing.T) {
	fee, err := Fee(31_250, 2_000)
	require.NoError(t, err)
	require.Equal(t, uint64(6_250), fee)

	locked, err := Percent(333, 50)
	require.NoError(t, err)
	require.Equal(t, uint64(166), locked)
}
