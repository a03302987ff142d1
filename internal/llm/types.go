// Package llm provides types for OpenAI-compatible chat completion APIs.
package llm

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message. Values are not mutated after construction.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// NewMessage returns a message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// SystemMessage returns a system message.
func SystemMessage(content string) Message { return NewMessage(RoleSystem, content) }

// UserMessage returns a user message.
func UserMessage(content string) Message { return NewMessage(RoleUser, content) }

// ChatRequest is the request body posted to the chat completion endpoint.
// Nil optional fields are left out of the encoded body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage tracks token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the body returned by the chat completion endpoint.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices" validate:"required,dive"`
	Usage   Usage    `json:"usage"`
}

// FirstAnswer returns the content of the first choice, or false when there is none.
func (r *ChatResponse) FirstAnswer() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

// ModelInfo represents a single model from the /models endpoint.
type ModelInfo struct {
	ID      string `json:"id" validate:"required"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelListResponse is the response from /models.
type ModelListResponse struct {
	Data []ModelInfo `json:"data" validate:"required,dive"`
}
