// Package llm relays assembled conversations to the hosted chat
// completion API, either buffered or as an incremental stream of text
// fragments.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/vmrninja/chatbot/internal/prompt"
)

const (
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = openai.ChatModelGPT4o

	// DefaultMaxTokens caps the length of a single model reply.
	DefaultMaxTokens = 4096
)

// ErrEmptyCompletion is returned when the API answers without any choices.
var ErrEmptyCompletion = errors.New("model returned no completion choices")

// Fragment is one increment of a streamed reply. A fragment carries
// either text or a terminal error, never both.
type Fragment struct {
	Text string
	Err  error
}

// RelayConfig holds the per-deployment relay settings.
type RelayConfig struct {
	Model     string
	MaxTokens int
}

// Relay forwards conversations to the chat completion API. It keeps no
// state between calls; each request carries the full conversation.
type Relay struct {
	client    *openai.Client
	model     openai.ChatModel
	maxTokens int64
}

// NewRelay creates a relay over the given OpenAI client, applying
// defaults for unset config fields.
func NewRelay(client *openai.Client, cfg RelayConfig) *Relay {
	model := DefaultModel
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}
	maxTokens := int64(DefaultMaxTokens)
	if cfg.MaxTokens > 0 {
		maxTokens = int64(cfg.MaxTokens)
	}
	return &Relay{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends the conversation and waits for the full reply.
func (r *Relay) Complete(ctx context.Context, msgs []prompt.Message) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, r.params(msgs))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream sends the conversation and returns a channel of reply fragments.
// The channel yields zero or more text fragments, then at most one error
// fragment, and is closed when the upstream stream ends. Cancelling ctx
// closes the upstream connection and ends the stream promptly.
func (r *Relay) Stream(ctx context.Context, msgs []prompt.Message) <-chan Fragment {
	out := make(chan Fragment)

	go func() {
		defer close(out)

		stream := r.client.Chat.Completions.NewStreaming(ctx, r.params(msgs))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- Fragment{Text: delta}:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil {
			select {
			case out <- Fragment{Err: fmt.Errorf("model stream failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

// params converts a conversation into chat completion parameters, with
// the fixed system instruction first and the caller's turns in order.
func (r *Relay) params(msgs []prompt.Message) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	messages = append(messages, openai.SystemMessage(prompt.SystemInstruction))
	for _, msg := range msgs {
		switch msg.Role {
		case prompt.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Messages:  messages,
		Model:     r.model,
		MaxTokens: openai.Int(r.maxTokens),
	}
}
