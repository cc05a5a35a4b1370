package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"
)

// RemoteSigner delegates transaction assembly and signing to a colocated
// signer service. The bot never touches private keys; the service holds the
// active and posting keys and returns a broadcast-ready transaction.
type RemoteSigner struct {
	addr string
	hc   *http.Client
}

func NewRemoteSigner(addr string) *RemoteSigner {
	return &RemoteSigner{
		addr: addr,
		hc: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type signRequest struct {
	Operations []json.RawMessage `json:"operations"`
}

type signResponse struct {
	Transaction json.RawMessage `json:"transaction"`
	Error       string          `json:"error"`
}

func (s *RemoteSigner) Sign(ctx context.Context, ops []json.RawMessage) (json.RawMessage, error) {
	body, err := json.Marshal(&signRequest{Operations: ops})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.addr, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, Transient(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, Transient(xerrors.Errorf("signer: http status %v", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(err)
	}

	var sr signResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, xerrors.Errorf("signer: bad response: %w", err)
	}
	if sr.Error != "" {
		return nil, xerrors.Errorf("signer: %v", sr.Error)
	}
	return sr.Transaction, nil
}
