package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/LeJamon/goPredictd/internal/config"
	"github.com/LeJamon/goPredictd/internal/core/tx/oracle"
	"github.com/LeJamon/goPredictd/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestKeygenAndSignResult(t *testing.T) {
	var keys map[string]string
	require.NoError(t, json.Unmarshal([]byte(execute(t, "keygen")), &keys))
	assert.Equal(t, "secp256k1", keys["key_type"])
	assert.Len(t, keys["seed"], 32)
	assert.Len(t, keys["account"], 40)

	out := execute(t, "sign-result",
		"--seed", keys["seed"],
		"--proposal", "4",
		"--result", "7",
		"--weight", "1500",
	)

	var u oracle.UploadResult
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, uint64(4), u.Payload.ProposalID)
	assert.Equal(t, uint32(7), u.Payload.ResultCurrency)
	assert.Equal(t, uint64(1500), u.Payload.VoteWeight)

	signer, err := u.Authenticate(true)
	require.NoError(t, err)
	want, err := crypto.ParseAccountID(keys["account"])
	require.NoError(t, err)
	assert.Equal(t, want, signer)
}

func TestNewLogger(t *testing.T) {
	t.Cleanup(func() { debugLog, quiet = false, false })

	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", slog.Int("n", 1))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])

	debugLog = true
	buf.Reset()
	logger, err = newLogger(config.LogConfig{Level: "error", Format: "text"}, &buf)
	require.NoError(t, err)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	_, err = newLogger(config.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}
