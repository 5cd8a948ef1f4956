package secp256k1

import (
	"testing"

	crypto "github.com/LeJamon/goPredictd/internal/crypto/common"
	"github.com/stretchr/testify/require"
)

func TestSECP256K1GenerateKeypair(t *testing.T) {
	provider := NewSECP256K1Provider()

	priv, pub, err := provider.GenerateKeypair([]byte("test seed for secp256k1"))
	require.NoError(t, err)
	require.Len(t, priv, 32)
	require.Len(t, pub, 33)
	require.Contains(t, []byte{0x02, 0x03}, pub[0])

	again, _, err := provider.GenerateKeypair([]byte("test seed for secp256k1"))
	require.NoError(t, err)
	require.Equal(t, priv, again, "derivation must be deterministic")

	derived, err := provider.PublicKey(priv)
	require.NoError(t, err)
	require.Equal(t, pub, derived)
}

func TestSECP256K1SignAndVerify(t *testing.T) {
	provider := NewSECP256K1Provider()
	priv, pub, err := provider.GenerateKeypair([]byte("signer"))
	require.NoError(t, err)

	digest := crypto.Sha512Half([]byte("test message"))
	sig, err := provider.Sign(digest, priv)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		require.True(t, provider.Verify(digest, pub, sig))
	})

	t.Run("other digest", func(t *testing.T) {
		require.False(t, provider.Verify(crypto.Sha512Half([]byte("other")), pub, sig))
	})

	t.Run("other key", func(t *testing.T) {
		_, otherPub, err := provider.GenerateKeypair([]byte("someone else"))
		require.NoError(t, err)
		require.False(t, provider.Verify(digest, otherPub, sig))
	})

	t.Run("garbage signature", func(t *testing.T) {
		require.False(t, provider.Verify(digest, pub, []byte{0x30, 0x01}))
	})
}
