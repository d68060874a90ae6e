package llm

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// Client wraps the OpenAI client used for chat completions.
type Client struct {
	client *openai.Client
}

// NewClient creates the OpenAI client for the chat relay.
// It requires OPENAI_API_KEY in the environment and returns an error if
// the key is not set, so a missing credential fails at startup rather
// than on the first chat request.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	// openai-go reads OPENAI_API_KEY from the environment on its own
	client := openai.NewClient()

	return &Client{client: &client}, nil
}

// Client returns the underlying OpenAI client.
func (c *Client) Client() *openai.Client {
	return c.client
}
