// Package notify delivers status-change messages to the citizen's WhatsApp
// number through the Cloud API. Delivery is best-effort: a failure is
// reported to the caller as an advisory and never blocks the workflow.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"grievance-service/internal/config"
	"grievance-service/internal/model"
)

type Dispatcher struct {
	httpClient *http.Client
	token      string
	phoneID    string
	baseURL    string
	log        zerolog.Logger
}

func NewDispatcher(cfg config.WhatsAppConfig, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		token:      cfg.Token,
		phoneID:    cfg.PhoneID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		log:        log,
	}
}

// Configured reports whether the channel has credentials. An unconfigured
// dispatcher fails every send with a reason instead of erroring at startup.
func (d *Dispatcher) Configured() bool {
	return d.token != "" && d.phoneID != ""
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             outboundText `json:"text"`
}

type outboundText struct {
	Body string `json:"body"`
}

// Notify sends a human-readable status-change message to the grievance's
// registered phone. The returned error carries the failure reason for the
// caller's advisory; it must never be treated as a workflow failure.
func (d *Dispatcher) Notify(ctx context.Context, grievance *model.Grievance, newStatus model.Status, note string) error {
	if !d.Configured() {
		return fmt.Errorf("whatsapp channel not configured")
	}

	body := composeMessage(grievance, newStatus, note)
	payload, err := json.Marshal(outboundMessage{
		MessagingProduct: "whatsapp",
		To:               grievance.Phone,
		Type:             "text",
		Text:             outboundText{Body: body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", d.baseURL, d.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	d.log.Debug().
		Str("ref", grievance.Ref).
		Str("status", string(newStatus)).
		Dur("took", time.Since(start)).
		Msg("whatsapp notification sent")
	return nil
}

func composeMessage(grievance *model.Grievance, newStatus model.Status, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Update on your grievance %s: status is now %s.", grievance.Ref, displayStatus(newStatus))
	if note != "" {
		fmt.Fprintf(&b, "\nNote: %s", note)
	}
	b.WriteString("\nTrack it anytime with your grievance ID.")
	return b.String()
}

func displayStatus(s model.Status) string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
