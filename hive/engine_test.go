package hive

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineBalances(t *testing.T) {
	srv := rpcServer(t, func(method string, params json.RawMessage) (interface{}, *rpcError) {
		require.Equal(t, "findOne", method)

		var q engineQuery
		require.NoError(t, json.Unmarshal(params, &q))
		assert.Equal(t, "tokens", q.Contract)
		assert.Equal(t, "balances", q.Table)

		query := q.Query.(map[string]interface{})
		if query["account"] == "alice" {
			return map[string]interface{}{"balance": "12.345", "stake": "100"}, nil
		}
		return nil, nil
	})
	defer srv.Close()

	e := NewEngineClient(srv.URL, nil, "hug.bot")

	liquid, err := e.LiquidBalance(context.Background(), "Alice", "HUG")
	require.NoError(t, err)
	assert.True(t, liquid.Equal(decimal.RequireFromString("12.345")))

	staked, err := e.StakedBalance(context.Background(), "alice", "HUG")
	require.NoError(t, err)
	assert.True(t, staked.Equal(decimal.NewFromInt(100)))
}

func TestEngineBalanceUnknownAccount(t *testing.T) {
	srv := rpcServer(t, func(_ string, _ json.RawMessage) (interface{}, *rpcError) {
		return nil, nil
	})
	defer srv.Close()

	e := NewEngineClient(srv.URL, nil, "hug.bot")

	liquid, err := e.LiquidBalance(context.Background(), "nobody", "HUG")
	require.NoError(t, err, "a missing balance row is not an error")
	assert.True(t, liquid.IsZero())
}

func TestEngineTransfer(t *testing.T) {
	srv := rpcServer(t, func(method string, _ json.RawMessage) (interface{}, *rpcError) {
		require.Equal(t, "condenser_api.broadcast_transaction_synchronous", method)
		return map[string]interface{}{}, nil
	})
	defer srv.Close()

	signer := &stubSigner{}
	chain := NewClient(srv.URL, signer)
	e := NewEngineClient("unused", chain, "hug.bot")

	amount := decimal.RequireFromString("1.5")
	require.NoError(t, e.Transfer(context.Background(), "Bob", amount, "HUG", "have a hug"))

	require.Len(t, signer.ops, 1)
	var pair []json.RawMessage
	require.NoError(t, json.Unmarshal(signer.ops[0][0], &pair))

	var name string
	require.NoError(t, json.Unmarshal(pair[0], &name))
	assert.Equal(t, "custom_json", name)

	var body customJSONOpBody
	require.NoError(t, json.Unmarshal(pair[1], &body))
	assert.Equal(t, []string{"hug.bot"}, body.RequiredAuths)
	assert.Equal(t, engineMainnetID, body.ID)

	var action tokenAction
	require.NoError(t, json.Unmarshal([]byte(body.JSON), &action))
	assert.Equal(t, "tokens", action.ContractName)
	assert.Equal(t, "transfer", action.ContractAction)
	assert.Equal(t, "HUG", action.ContractPayload.Symbol)
	assert.Equal(t, "bob", action.ContractPayload.To)
	assert.Equal(t, "1.5", action.ContractPayload.Quantity)
	assert.Equal(t, "have a hug", action.ContractPayload.Memo)
}

func TestEngineStake(t *testing.T) {
	srv := rpcServer(t, func(_ string, _ json.RawMessage) (interface{}, *rpcError) {
		return map[string]interface{}{}, nil
	})
	defer srv.Close()

	signer := &stubSigner{}
	chain := NewClient(srv.URL, signer)
	e := NewEngineClient("unused", chain, "hug.bot")

	require.NoError(t, e.Stake(context.Background(), "bob", decimal.NewFromInt(2), "HUG", ""))

	var pair []json.RawMessage
	require.NoError(t, json.Unmarshal(signer.ops[0][0], &pair))
	var body customJSONOpBody
	require.NoError(t, json.Unmarshal(pair[1], &body))
	var action tokenAction
	require.NoError(t, json.Unmarshal([]byte(body.JSON), &action))
	assert.Equal(t, "stake", action.ContractAction)
}
