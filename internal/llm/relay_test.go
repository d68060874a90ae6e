package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmrninja/chatbot/internal/prompt"
)

// newTestRelay points a relay at a stub API server.
func newTestRelay(t *testing.T, handler http.HandlerFunc) *Relay {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openai.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return NewRelay(&client, RelayConfig{Model: "gpt-4o", MaxTokens: 128})
}

func TestCompleteReturnsReply(t *testing.T) {
	var gotBody map[string]any
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Looks compliant."}, "finish_reason": "stop"}]
		}`)
	})

	reply, err := relay.Complete(context.Background(), []prompt.Message{
		{Role: prompt.RoleUser, Content: "Check compliance"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Looks compliant.", reply)

	// System instruction goes first, user message last.
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Contains(t, first["content"], "security compliance assistant")
	last := msgs[1].(map[string]any)
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "Check compliance", last["content"])
}

func TestCompleteUpstreamError(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "upstream exploded"}}`)
	})

	_, err := relay.Complete(context.Background(), []prompt.Message{
		{Role: prompt.RoleUser, Content: "hello"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}

func streamChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion.chunk",
		"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": content}}},
	})
	return "data: " + string(payload) + "\n\n"
}

func TestStreamDeliversFragmentsInOrder(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, streamChunk("The policy "))
		fmt.Fprint(w, streamChunk("requires "))
		fmt.Fprint(w, streamChunk("MFA."))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var parts []string
	for frag := range relay.Stream(context.Background(), []prompt.Message{
		{Role: prompt.RoleUser, Content: "Summarize"},
	}) {
		require.NoError(t, frag.Err)
		parts = append(parts, frag.Text)
	}

	assert.Equal(t, "The policy requires MFA.", strings.Join(parts, ""))
}

func TestStreamUpstreamFailureYieldsErrorFragment(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error": {"message": "overloaded"}}`)
	})

	var texts []string
	var streamErr error
	for frag := range relay.Stream(context.Background(), []prompt.Message{
		{Role: prompt.RoleUser, Content: "hello"},
	}) {
		if frag.Err != nil {
			streamErr = frag.Err
			continue
		}
		texts = append(texts, frag.Text)
	}

	assert.Empty(t, texts)
	require.Error(t, streamErr)
	assert.Contains(t, streamErr.Error(), "model stream failed")
}

func TestStreamCancelledContext(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, streamChunk("partial"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context must end the stream; the channel always closes.
	for range relay.Stream(ctx, []prompt.Message{{Role: prompt.RoleUser, Content: "hello"}}) {
	}
}

func TestNewRelayDefaults(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("test-key"))
	relay := NewRelay(&client, RelayConfig{})

	assert.Equal(t, openai.ChatModel(DefaultModel), relay.model)
	assert.Equal(t, int64(DefaultMaxTokens), relay.maxTokens)
}
