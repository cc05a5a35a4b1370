package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

const engineMainnetID = "ssc-mainnet-hive"

// EngineClient queries Hive-Engine sidechain token state and issues token
// actions. Reads go to the contracts API; writes are custom_json operations
// broadcast through the layer-1 client.
type EngineClient struct {
	addr    string
	hc      *http.Client
	chain   *Client
	account string
}

func NewEngineClient(addr string, chain *Client, account string) *EngineClient {
	return &EngineClient{
		addr: addr,
		hc: &http.Client{
			Timeout: 30 * time.Second,
		},
		chain:   chain,
		account: account,
	}
}

type engineQuery struct {
	Contract string      `json:"contract"`
	Table    string      `json:"table"`
	Query    interface{} `json:"query"`
}

func (e *EngineClient) findOne(ctx context.Context, q *engineQuery, out interface{}) error {
	body, err := json.Marshal(&rpcRequest{
		JSONRPC: "2.0",
		Method:  "findOne",
		Params:  q,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.addr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.hc.Do(req)
	if err != nil {
		return Transient(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Transient(xerrors.Errorf("engine findOne: http status %v", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transient(err)
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return Transient(xerrors.Errorf("engine findOne: bad response: %w", err))
	}
	if rr.Error != nil {
		return xerrors.Errorf("engine findOne: rpc error %v: %v", rr.Error.Code, rr.Error.Message)
	}

	// "null" means no row, which is a valid answer.
	if string(rr.Result) == "null" {
		return nil
	}
	return json.Unmarshal(rr.Result, out)
}

type tokenBalanceRow struct {
	Balance string `json:"balance"`
	Stake   string `json:"stake"`
}

func (e *EngineClient) tokenBalance(ctx context.Context, account, token string) (*tokenBalanceRow, error) {
	var row tokenBalanceRow
	err := e.findOne(ctx, &engineQuery{
		Contract: "tokens",
		Table:    "balances",
		Query: map[string]string{
			"account": strings.ToLower(account),
			"symbol":  token,
		},
	}, &row)
	if err != nil {
		return nil, err
	}
	if row.Balance == "" && row.Stake == "" {
		return nil, nil
	}
	return &row, nil
}

// LiquidBalance returns the transferable balance of token in account's
// wallet, zero when the account holds none.
func (e *EngineClient) LiquidBalance(ctx context.Context, account, token string) (decimal.Decimal, error) {
	row, err := e.tokenBalance(ctx, account, token)
	if err != nil || row == nil {
		return decimal.Zero, err
	}
	return parseAmount(row.Balance)
}

// StakedBalance returns the staked balance of token in account's wallet,
// zero when the account holds none.
func (e *EngineClient) StakedBalance(ctx context.Context, account, token string) (decimal.Decimal, error) {
	row, err := e.tokenBalance(ctx, account, token)
	if err != nil || row == nil {
		return decimal.Zero, err
	}
	return parseAmount(row.Stake)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, xerrors.Errorf("bad engine amount %q: %w", s, err)
	}
	return d, nil
}

type tokenAction struct {
	ContractName    string             `json:"contractName"`
	ContractAction  string             `json:"contractAction"`
	ContractPayload tokenActionPayload `json:"contractPayload"`
}

type tokenActionPayload struct {
	Symbol   string `json:"symbol"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo,omitempty"`
}

type customJSONOpBody struct {
	RequiredAuths        []string `json:"required_auths"`
	RequiredPostingAuths []string `json:"required_posting_auths"`
	ID                   string   `json:"id"`
	JSON                 string   `json:"json"`
}

func (e *EngineClient) tokenOp(ctx context.Context, action string, to string, amount decimal.Decimal, token, memo string) error {
	payload, err := json.Marshal(&tokenAction{
		ContractName:   "tokens",
		ContractAction: action,
		ContractPayload: tokenActionPayload{
			Symbol:   token,
			To:       strings.ToLower(to),
			Quantity: amount.String(),
			Memo:     memo,
		},
	})
	if err != nil {
		return err
	}

	op := mustOp("custom_json", &customJSONOpBody{
		RequiredAuths:        []string{e.account},
		RequiredPostingAuths: []string{},
		ID:                   engineMainnetID,
		JSON:                 string(payload),
	})
	return e.chain.broadcast(ctx, []json.RawMessage{op})
}

// Transfer sends amount of token from the bot account to the given account.
func (e *EngineClient) Transfer(ctx context.Context, to string, amount decimal.Decimal, token, memo string) error {
	if err := e.tokenOp(ctx, "transfer", to, amount, token, memo); err != nil {
		return fmt.Errorf("transfer %v %v to %v: %w", amount, token, to, err)
	}
	return nil
}

// Stake stakes amount of token directly to the given account.
func (e *EngineClient) Stake(ctx context.Context, to string, amount decimal.Decimal, token, memo string) error {
	if err := e.tokenOp(ctx, "stake", to, amount, token, memo); err != nil {
		return fmt.Errorf("stake %v %v to %v: %w", amount, token, to, err)
	}
	return nil
}
