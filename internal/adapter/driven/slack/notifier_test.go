package slack_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/adapter/driven/slack"
	"github.com/agentboard/agentboard/internal/domain/model"
)

func TestNotifier_Notify(t *testing.T) {
	var receivedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := slack.NewNotifier(server.URL)

	err := notifier.Notify(context.Background(), model.Recap{
		RepoFullName:      "octocat/hello-world",
		TodoCount:         4,
		ActivityScore:     72,
		ArchitectureScore: 85,
		ProductionReady:   true,
		TopTodos: []model.TodoItem{
			{Title: "Add regression tests", Priority: model.PriorityHigh},
		},
	})

	require.NoError(t, err)
	require.NotEmpty(t, receivedBody)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(receivedBody, &payload))

	text, ok := payload["text"].(string)
	require.True(t, ok)
	assert.Contains(t, text, "octocat/hello-world")
	assert.Contains(t, text, "production ready")
	assert.Contains(t, text, "Add regression tests")
	assert.Contains(t, payload, "blocks")
}

func TestNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer server.Close()

	notifier := slack.NewNotifier(server.URL)

	err := notifier.Notify(context.Background(), model.Recap{RepoFullName: "o/r"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
