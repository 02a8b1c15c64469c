// Package slack delivers run recaps to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*Notifier)(nil)

// Notifier posts run recaps to a Slack incoming webhook URL.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// NewNotifier creates a Notifier for the given webhook URL.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the recap as a text message with a mrkdwn section block.
func (n *Notifier) Notify(ctx context.Context, recap model.Recap) error {
	text := formatRecap(recap)

	payload := map[string]any{
		"text": text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	return nil
}

func formatRecap(recap model.Recap) string {
	ready := ":x: not production ready"
	if recap.ProductionReady {
		ready = ":white_check_mark: production ready"
	}

	text := fmt.Sprintf(":robot_face: *Agent run finished for %s*\nActivity %.0f/100, architecture %d/100, %s.\n%d todos generated.",
		recap.RepoFullName, recap.ActivityScore, recap.ArchitectureScore, ready, recap.TodoCount)

	for i, item := range recap.TopTodos {
		text += fmt.Sprintf("\n%d. %s (%s)", i+1, item.Title, item.Priority)
	}

	return text
}
