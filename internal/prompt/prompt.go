// Package prompt assembles the conversation sent to the model API: an
// optional context block built from uploaded documents, a fixed
// acknowledgment turn, and the user's message.
package prompt

import (
	"strings"

	"github.com/vmrninja/chatbot/internal/registry"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn in a conversation.
type Message struct {
	Role    Role
	Content string
}

// SystemInstruction describes the assistant's role. It is sent as the
// system message on every chat request.
const SystemInstruction = `You are a security compliance assistant helping to verify assessment questionnaire answers against security policies.

Your role is to:
1. Analyze uploaded security policies and assessment questionnaires
2. Check if answers comply with stated policies
3. Identify gaps, inconsistencies, or areas of concern
4. Provide specific references to relevant policy sections
5. Suggest improvements or corrections when needed

Be thorough, objective, and cite specific sections from the documents when making assessments.`

// acknowledgment is the fixed assistant turn inserted after the context
// block so the upstream model treats the documents as already reviewed.
const acknowledgment = "I have reviewed the uploaded documents. How can I help you analyze them?"

const contextHeader = "=== UPLOADED DOCUMENTS ==="

// BuildContext formats the given documents into a single labeled context
// block. Each document contributes a header naming it, a separator rule,
// and its content. Returns "" when docs is empty.
func BuildContext(docs []registry.Document) string {
	if len(docs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(contextHeader + "\n\n")
	for _, doc := range docs {
		b.WriteString("Document: " + doc.Filename + "\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		b.WriteString(doc.Content + "\n\n")
	}
	return b.String()
}

// BuildConversation constructs the ordered message sequence for one chat
// turn. When docs is non-empty the context block is inserted as a leading
// user turn followed by the acknowledgment, so the new message always
// comes last. Conversations are rebuilt from scratch on every request;
// nothing is retained server-side between calls.
func BuildConversation(message string, docs []registry.Document) []Message {
	var msgs []Message

	if context := BuildContext(docs); context != "" {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: context},
			Message{Role: RoleAssistant, Content: acknowledgment},
		)
	}

	msgs = append(msgs, Message{Role: RoleUser, Content: message})
	return msgs
}
