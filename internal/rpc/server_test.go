package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/LeJamon/goPredictd/internal/core/tx/payment"
	"github.com/LeJamon/goPredictd/internal/storage/eventdb"
	predtesting "github.com/LeJamon/goPredictd/internal/testing"
	proposaltest "github.com/LeJamon/goPredictd/internal/testing/proposal"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	got     eventdb.Filter
	records []eventdb.Record
	err     error
}

func (f *fakeEvents) Query(_ context.Context, filter eventdb.Filter) ([]eventdb.Record, error) {
	f.got = filter
	return f.records, f.err
}

type rpcFixture struct {
	env    *predtesting.TestEnv
	hub    *Hub
	events *fakeEvents
	http   *httptest.Server
}

func newFixture(t *testing.T, withEvents bool) *rpcFixture {
	t.Helper()
	env := predtesting.NewTestEnv(t)
	services := &Services{Chain: env.Node()}
	f := &rpcFixture{env: env}
	if withEvents {
		f.events = &fakeEvents{}
		services.Events = f.events
	}
	f.hub = NewHub(16, nil)
	env.Node().AddSink(f.hub)

	srv := NewServer(services, f.hub, "/ws", nil)
	f.http = httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		f.hub.Close()
		f.http.Close()
	})
	return f
}

// call posts a JSON-RPC request and returns the result object.
func (f *rpcFixture) call(t *testing.T, method string, params interface{}) map[string]interface{} {
	t.Helper()
	req := map[string]interface{}{"method": method}
	if params != nil {
		req["params"] = []interface{}{params}
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(f.http.URL+"/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Result)
	return out.Result
}

func requireSuccess(t *testing.T, result map[string]interface{}) {
	t.Helper()
	require.Equal(t, "success", result["status"], "unexpected error: %v", result["error_message"])
}

func requireError(t *testing.T, result map[string]interface{}, errorString string) {
	t.Helper()
	require.Equal(t, "error", result["status"])
	assert.Equal(t, errorString, result["error"])
}

func signedTransfer(t *testing.T, f *rpcFixture, from, to *predtesting.Account, amt uint64) json.RawMessage {
	t.Helper()
	transfer := payment.NewTransfer(from.ID, to.ID, predtesting.SettlementCurrency, amt)
	transfer.Sequence = f.env.Seq(from)
	require.NoError(t, tx.Sign(transfer, from.KeyPair))
	data, err := json.Marshal(transfer)
	require.NoError(t, err)
	return data
}

func TestServerInfo(t *testing.T) {
	f := newFixture(t, false)
	f.env.Close()

	result := f.call(t, "server_info", nil)
	requireSuccess(t, result)

	info := result["info"].(map[string]interface{})
	assert.EqualValues(t, f.env.Height(), info["current_height"])
	assert.EqualValues(t, f.env.BlockTime(), info["current_time"])
	assert.Equal(t, false, info["events_enabled"])
	closed := info["closed_block"].(map[string]interface{})
	assert.EqualValues(t, f.env.Height()-1, closed["height"])
	assert.Len(t, closed["hash"], 64)
}

func TestServer_GetDefaultsToServerInfo(t *testing.T) {
	f := newFixture(t, false)

	resp, err := http.Get(f.http.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	requireSuccess(t, out.Result)
	assert.Contains(t, out.Result, "info")
}

func TestServer_RequestErrors(t *testing.T) {
	f := newFixture(t, false)

	t.Run("unknown method", func(t *testing.T) {
		result := f.call(t, "ledger_accept", nil)
		requireError(t, result, "unknownCmd")
		request := result["request"].(map[string]interface{})
		assert.Equal(t, "ledger_accept", request["command"])
	})

	t.Run("invalid json", func(t *testing.T) {
		resp, err := http.Post(f.http.URL+"/", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out struct {
			Result map[string]interface{} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		requireError(t, out.Result, "jsonInvalid")
	})

	t.Run("missing method", func(t *testing.T) {
		resp, err := http.Post(f.http.URL+"/", "application/json", strings.NewReader(`{"params":[{}]}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out struct {
			Result map[string]interface{} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		requireError(t, out.Result, "missingCommand")
	})

	t.Run("method not allowed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, f.http.URL+"/", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	resp, err := http.Get(f.http.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["height"])
}

func TestSubmit(t *testing.T) {
	f := newFixture(t, false)
	alice := predtesting.NewAccount("alice")
	bob := predtesting.NewAccount("bob")
	f.env.Fund(alice)

	result := f.call(t, "submit", map[string]interface{}{
		"tx_json": signedTransfer(t, f, alice, bob, 250),
	})
	requireSuccess(t, result)
	assert.Equal(t, "tesSUCCESS", result["engine_result"])
	assert.Equal(t, true, result["applied"])
	assert.Len(t, result["hash"], 64)
	events := result["events"].([]interface{})
	require.Len(t, events, 1)
	assert.Equal(t, tx.EventTransferred, events[0].(map[string]interface{})["type"])

	assert.Equal(t, uint64(250), f.env.Balance(bob, predtesting.SettlementCurrency))

	t.Run("replayed sequence is not applied", func(t *testing.T) {
		transfer := payment.NewTransfer(alice.ID, bob.ID, predtesting.SettlementCurrency, 1)
		transfer.Sequence = 0
		require.NoError(t, tx.Sign(transfer, alice.KeyPair))
		result := f.call(t, "submit", map[string]interface{}{"tx_json": transfer})
		requireSuccess(t, result)
		assert.Equal(t, false, result["applied"])
		assert.NotEqual(t, "tesSUCCESS", result["engine_result"])
	})

	t.Run("unsigned", func(t *testing.T) {
		transfer := payment.NewTransfer(alice.ID, bob.ID, predtesting.SettlementCurrency, 1)
		transfer.Sequence = f.env.Seq(alice)
		result := f.call(t, "submit", map[string]interface{}{"tx_json": transfer})
		requireSuccess(t, result)
		assert.Equal(t, false, result["applied"])
	})

	t.Run("unknown type", func(t *testing.T) {
		result := f.call(t, "submit", map[string]interface{}{
			"tx_json": map[string]interface{}{"TransactionType": "OfferCreate"},
		})
		requireError(t, result, "invalidTransaction")
	})

	t.Run("missing tx_json", func(t *testing.T) {
		requireError(t, f.call(t, "submit", map[string]interface{}{}), "invalidParams")
	})
}

func TestProposalAndPool(t *testing.T) {
	f := newFixture(t, false)
	owner := predtesting.NewAccount("owner")
	f.env.Fund(owner)
	p := proposaltest.Open(t, f.env, proposaltest.Create(owner, f.env.BlockTime()+3*3600))

	t.Run("proposal", func(t *testing.T) {
		result := f.call(t, "proposal", map[string]interface{}{"proposal_id": p.ID})
		requireSuccess(t, result)
		record := result["proposal"].(map[string]interface{})
		assert.Equal(t, "OriginalPrediction", record["status"])
		assert.Equal(t, p.Title, record["title"])
		assert.Equal(t, "0.01", result["fee_rate"])
		assert.Contains(t, result, "tally")
		assert.Contains(t, result, "pool")
	})

	t.Run("pool", func(t *testing.T) {
		result := f.call(t, "pool", map[string]interface{}{"proposal_id": p.ID})
		requireSuccess(t, result)
		pool := result["pool"].(map[string]interface{})
		assert.Equal(t, false, pool["frozen"])
		assert.NotContains(t, pool, "final")
		assert.Equal(t, []interface{}{"0.5", "0.5"}, pool["prices"])
	})

	t.Run("quote_buy", func(t *testing.T) {
		result := f.call(t, "quote_buy", map[string]interface{}{
			"proposal_id": p.ID,
			"outcome":     p.Outcomes[0],
			"amount":      1000,
		})
		requireSuccess(t, result)
		quote := result["quote"].(map[string]interface{})
		assert.EqualValues(t, 10, quote["fee"])
		assert.EqualValues(t, 990, quote["net"])
		assert.Greater(t, quote["output"].(float64), float64(990))
	})

	t.Run("quote_buy rejects a foreign outcome", func(t *testing.T) {
		result := f.call(t, "quote_buy", map[string]interface{}{
			"proposal_id": p.ID,
			"outcome":     p.Currency,
			"amount":      1000,
		})
		requireError(t, result, "invalidParams")
	})

	t.Run("unknown proposal", func(t *testing.T) {
		for _, method := range []string{"proposal", "pool", "quote_buy"} {
			result := f.call(t, method, map[string]interface{}{
				"proposal_id": 99,
				"outcome":     p.Outcomes[0],
				"amount":      1,
			})
			requireError(t, result, "entryNotFound")
			assert.EqualValues(t, RpcENTRY_NOT_FOUND, result["error_code"])
		}
	})

	t.Run("missing id", func(t *testing.T) {
		requireError(t, f.call(t, "pool", map[string]interface{}{}), "invalidParams")
	})
}

func TestBalanceAndStake(t *testing.T) {
	f := newFixture(t, false)
	alice := predtesting.NewAccount("alice")
	f.env.Fund(alice)

	t.Run("balance", func(t *testing.T) {
		result := f.call(t, "balance", map[string]interface{}{
			"account":  alice.ID.String(),
			"currency": predtesting.SettlementCurrency,
		})
		requireSuccess(t, result)
		assert.EqualValues(t, predtesting.DefaultFunding, result["free"])
		assert.EqualValues(t, 0, result["reserved"])
	})

	t.Run("unknown currency", func(t *testing.T) {
		result := f.call(t, "balance", map[string]interface{}{
			"account":  alice.ID.String(),
			"currency": 77,
		})
		requireError(t, result, "entryNotFound")
	})

	t.Run("malformed account", func(t *testing.T) {
		result := f.call(t, "stake", map[string]interface{}{"account": "not-hex"})
		requireError(t, result, "actMalformed")
	})

	t.Run("stake of a fresh account", func(t *testing.T) {
		result := f.call(t, "stake", map[string]interface{}{"account": alice.ID.String()})
		requireSuccess(t, result)
		assert.EqualValues(t, 0, result["staked"])
		assert.EqualValues(t, 0, result["usable"])
		assert.Equal(t, false, result["active"])
	})
}

func TestParams(t *testing.T) {
	f := newFixture(t, false)

	result := f.call(t, "params", nil)
	requireSuccess(t, result)
	params := result["params"].(map[string]interface{})
	assert.Equal(t, "0.1", params["max_fee_rate"])
	assert.Equal(t, "0.01", params["withdrawal_fee_rate"])
	assert.EqualValues(t, 50, params["lock_ratio"])
	assert.Contains(t, params["admins"], predtesting.AdminAccount().ID.String())
}

func TestEvents(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, false)
		requireError(t, f.call(t, "events", nil), "notEnabled")
	})

	t.Run("passes the filter through", func(t *testing.T) {
		f := newFixture(t, true)
		alice := predtesting.NewAccount("alice")
		id := uint64(3)
		f.events.records = []eventdb.Record{{
			ID:    "e1",
			Event: tx.ProposalEvent(tx.EventNewProposal, id, alice.ID, nil),
		}}

		result := f.call(t, "events", map[string]interface{}{
			"proposal_id": id,
			"account":     alice.ID.String(),
			"type":        tx.EventNewProposal,
			"from_height": 2,
			"limit":       5,
		})
		requireSuccess(t, result)
		assert.EqualValues(t, 1, result["count"])

		require.NotNil(t, f.events.got.ProposalID)
		assert.Equal(t, id, *f.events.got.ProposalID)
		require.NotNil(t, f.events.got.Account)
		assert.Equal(t, alice.ID, *f.events.got.Account)
		assert.Equal(t, tx.EventNewProposal, f.events.got.Type)
		assert.Equal(t, uint64(2), f.events.got.FromHeight)
		assert.Equal(t, 5, f.events.got.Limit)
	})

	t.Run("query failure", func(t *testing.T) {
		f := newFixture(t, true)
		f.events.err = errors.New("disk on fire")
		requireError(t, f.call(t, "events", nil), "internal")
	})
}

func dialHub(t *testing.T, f *rpcFixture) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_Stream(t *testing.T) {
	f := newFixture(t, false)
	alice := predtesting.NewAccount("alice")
	bob := predtesting.NewAccount("bob")
	conn := dialHub(t, f)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "subscribe", "id": 1}))
	resp := readJSON(t, conn)
	assert.Equal(t, "response", resp["type"])
	assert.Equal(t, "success", resp["status"])
	assert.EqualValues(t, 1, resp["id"])

	f.env.Fund(alice)
	f.env.Submit(payment.NewTransfer(alice.ID, bob.ID, predtesting.SettlementCurrency, 5))
	height := f.env.Height()
	f.env.Close()

	msg := readJSON(t, conn)
	assert.Equal(t, "block", msg["type"])
	assert.EqualValues(t, height, msg["height"])
	events := msg["events"].([]interface{})
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, tx.EventTransferred, e.(map[string]interface{})["type"])
	}
}

func TestWebSocket_Commands(t *testing.T) {
	f := newFixture(t, false)
	conn := dialHub(t, f)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "params", "id": "p"}))
	resp := readJSON(t, conn)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "p", resp["id"])
	assert.Contains(t, resp["result"], "params")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "nope"}))
	resp = readJSON(t, conn)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "unknownCmd", resp["error"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	resp = readJSON(t, conn)
	assert.Equal(t, "jsonInvalid", resp["error"])
}

func TestHub_ProposalFilter(t *testing.T) {
	alice := predtesting.NewAccount("alice")
	events := []tx.Event{
		tx.ProposalEvent(tx.EventNewProposal, 1, alice.ID, nil),
		tx.ProposalEvent(tx.EventNewProposal, 2, alice.ID, nil),
		tx.AccountEvent(tx.EventTransferred, alice.ID, nil),
	}

	c := &wsClient{proposals: map[uint64]struct{}{}}
	_, ok := c.filter(events)
	assert.False(t, ok, "unsubscribed clients get nothing")

	c.subscribed = true
	all, ok := c.filter(events)
	assert.True(t, ok)
	assert.Len(t, all, 3)

	c.proposals[2] = struct{}{}
	matched, ok := c.filter(events)
	assert.True(t, ok)
	require.Len(t, matched, 1)
	assert.Equal(t, uint64(2), *matched[0].ProposalID)

	c.proposals = map[uint64]struct{}{7: {}}
	_, ok = c.filter(events)
	assert.False(t, ok, "blocks without a matching event are skipped")

	_, ok = c.filter(nil)
	assert.False(t, ok)
}
