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

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("hive")

// TransactionSigner turns a list of raw operations into a signed, broadcast
// ready transaction. Key handling and the signature scheme live entirely
// behind this interface.
type TransactionSigner interface {
	Sign(ctx context.Context, ops []json.RawMessage) (json.RawMessage, error)
}

// Client talks to a condenser-API node over JSON-RPC/HTTP.
type Client struct {
	addr   string
	hc     *http.Client
	signer TransactionSigner
}

func NewClient(addr string, signer TransactionSigner) *Client {
	return &Client{
		addr: addr,
		hc: &http.Client{
			Timeout: 30 * time.Second,
		},
		signer: signer,
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	body, err := json.Marshal(&rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return Transient(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Transient(xerrors.Errorf("%v: http status %v", method, resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transient(err)
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return Transient(xerrors.Errorf("%v: bad rpc response: %w", method, err))
	}
	if rr.Error != nil {
		return xerrors.Errorf("%v: rpc error %v: %v", method, rr.Error.Code, rr.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return xerrors.Errorf("%v: decode result: %w", method, err)
		}
	}
	return nil
}

// HeadBlockNumber returns the current head block of the chain.
func (c *Client) HeadBlockNumber(ctx context.Context) (int64, error) {
	var props struct {
		HeadBlockNumber int64 `json:"head_block_number"`
	}
	if err := c.call(ctx, "condenser_api.get_dynamic_global_properties", []interface{}{}, &props); err != nil {
		return 0, err
	}
	return props.HeadBlockNumber, nil
}

type rawBlock struct {
	Timestamp    string `json:"timestamp"`
	Transactions []struct {
		Operations []json.RawMessage `json:"operations"`
	} `json:"transactions"`
}

type commentOpBody struct {
	ParentAuthor   string `json:"parent_author"`
	ParentPermlink string `json:"parent_permlink"`
	Author         string `json:"author"`
	Permlink       string `json:"permlink"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	JSONMetadata   string `json:"json_metadata"`
}

// BlockOperations fetches one block and returns its operations. Blocks that
// do not exist yet come back empty without error.
func (c *Client) BlockOperations(ctx context.Context, blockNum int64) ([]Operation, error) {
	var blk rawBlock
	if err := c.call(ctx, "condenser_api.get_block", []interface{}{blockNum}, &blk); err != nil {
		return nil, err
	}
	if blk.Timestamp == "" {
		return nil, nil
	}

	ts, err := time.Parse("2006-01-02T15:04:05", blk.Timestamp)
	if err != nil {
		return nil, xerrors.Errorf("block %v: bad timestamp %q: %w", blockNum, blk.Timestamp, err)
	}

	var out []Operation
	for _, tx := range blk.Transactions {
		for _, rawOp := range tx.Operations {
			// condenser encodes an operation as ["name", {...}]
			var pair []json.RawMessage
			if err := json.Unmarshal(rawOp, &pair); err != nil || len(pair) != 2 {
				continue
			}
			var name string
			if err := json.Unmarshal(pair[0], &name); err != nil {
				continue
			}

			op := Operation{
				Type:      name,
				BlockNum:  blockNum,
				Timestamp: ts.UTC(),
			}
			if name == OpTypeComment {
				var body commentOpBody
				if err := json.Unmarshal(pair[1], &body); err != nil {
					log.Warnf("block %v: undecodable comment op: %v", blockNum, err)
					continue
				}
				op.Author = body.Author
				op.ParentAuthor = body.ParentAuthor
				op.Permlink = body.Permlink
				op.ParentPermlink = body.ParentPermlink
				op.Body = body.Body
			}
			out = append(out, op)
		}
	}
	return out, nil
}

// VotingPower returns the account's current mana in percent (0-100).
func (c *Client) VotingPower(ctx context.Context, account string) (float64, error) {
	var accounts []struct {
		VotingPower int `json:"voting_power"`
	}
	if err := c.call(ctx, "condenser_api.get_accounts", []interface{}{[]string{account}}, &accounts); err != nil {
		return 0, err
	}
	if len(accounts) == 0 {
		return 0, xerrors.Errorf("account %v not found", account)
	}
	return float64(accounts[0].VotingPower) / 100.0, nil
}

func (c *Client) broadcast(ctx context.Context, ops []json.RawMessage) error {
	if c.signer == nil {
		return xerrors.New("no signer configured")
	}
	signed, err := c.signer.Sign(ctx, ops)
	if err != nil {
		return err
	}
	return c.call(ctx, "condenser_api.broadcast_transaction_synchronous", []interface{}{signed}, nil)
}

func mustOp(name string, body interface{}) json.RawMessage {
	raw, err := json.Marshal([]interface{}{name, body})
	if err != nil {
		panic(err)
	}
	return raw
}

// PostReply publishes a comment under the given "@author/permlink" parent.
func (c *Client) PostReply(ctx context.Context, account, parentIdentifier, body string) error {
	parentAuthor, parentPermlink, err := SplitIdentifier(parentIdentifier)
	if err != nil {
		return err
	}

	op := mustOp(OpTypeComment, &commentOpBody{
		ParentAuthor:   parentAuthor,
		ParentPermlink: parentPermlink,
		Author:         account,
		Permlink:       replyPermlink(parentAuthor, parentPermlink),
		Body:           body,
		JSONMetadata:   "{}",
	})
	return c.broadcast(ctx, []json.RawMessage{op})
}

// PostRoot publishes a top level post into a community.
func (c *Client) PostRoot(ctx context.Context, account, community, permlink, title, body, jsonMetadata string) error {
	op := mustOp(OpTypeComment, &commentOpBody{
		ParentAuthor:   "",
		ParentPermlink: community,
		Author:         account,
		Permlink:       permlink,
		Title:          title,
		Body:           body,
		JSONMetadata:   jsonMetadata,
	})
	return c.broadcast(ctx, []json.RawMessage{op})
}

type voteOpBody struct {
	Voter    string `json:"voter"`
	Author   string `json:"author"`
	Permlink string `json:"permlink"`
	Weight   int    `json:"weight"`
}

// CastVote votes on "@author/permlink" with the given percent weight. A vote
// on a paid-out target returns ErrNotVotable.
func (c *Client) CastVote(ctx context.Context, targetIdentifier string, weightPercent int, voter string) error {
	author, permlink, err := SplitIdentifier(targetIdentifier)
	if err != nil {
		return err
	}

	op := mustOp("vote", &voteOpBody{
		Voter:    voter,
		Author:   author,
		Permlink: permlink,
		Weight:   weightPercent * 100, // basis points on chain
	})
	err = c.broadcast(ctx, []json.RawMessage{op})
	if err != nil && isArchivedVoteError(err) {
		return ErrNotVotable
	}
	return err
}

func isArchivedVoteError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "archived") || strings.Contains(msg, "cashout window") || strings.Contains(msg, "paidout")
}

// SplitIdentifier breaks "@author/permlink" into its parts.
func SplitIdentifier(identifier string) (string, string, error) {
	trimmed := strings.TrimPrefix(identifier, "@")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", xerrors.Errorf("invalid identifier %q", identifier)
	}
	return parts[0], parts[1], nil
}

func replyPermlink(parentAuthor, parentPermlink string) string {
	base := fmt.Sprintf("re-%s-%s-%d", parentAuthor, parentPermlink, time.Now().Unix())
	return SanitizePermlink(base)
}
