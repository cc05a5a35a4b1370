package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("notify")

// Discord posts messages to a webhook. Delivery is best effort: failures are
// logged and swallowed, never propagated to the caller.
type Discord struct {
	webhook  string
	botName  string
	hc       *http.Client
	disabled bool
}

func NewDiscord(webhook, botName string) *Discord {
	return &Discord{
		webhook: webhook,
		botName: botName,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
		disabled: webhook == "",
	}
}

type webhookPayload struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

func (d *Discord) Notify(ctx context.Context, message string) {
	if d.disabled {
		return
	}

	body, err := json.Marshal(&webhookPayload{
		Username: d.botName,
		Content:  message,
	})
	if err != nil {
		log.Warnf("discord payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhook, bytes.NewReader(body))
	if err != nil {
		log.Warnf("discord request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.hc.Do(req)
	if err != nil {
		log.Warnf("discord send: %v", err)
		return
	}
	resp.Body.Close() //nolint:errcheck
}
