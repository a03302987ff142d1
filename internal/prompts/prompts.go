// Package prompts provides the system prompt and the fixed texts shown in the transcript.
package prompts

import (
	"fmt"
	"strings"
)

// Phrases is the set of fixed texts for one language.
type Phrases struct {
	Greeting     string
	UserSender   string
	AISender     string
	SystemPrompt string
	Thinking     string
	NoAnswer     string
	UnknownError string
	EmptyInput   string
	MissingKey   string

	remoteError     string
	requestFailed   string
	remoteNotice    string
	transportNotice string
}

var phrasebooks = map[string]Phrases{
	"zh": {
		Greeting:        "你好！我是AI助手，有什么可以帮助你的吗？",
		UserSender:      "你",
		AISender:        "AI",
		SystemPrompt:    "你是一个乐于助人的助手。",
		Thinking:        "思考中...",
		NoAnswer:        "未能获取到AI回答。",
		UnknownError:    "未知错误",
		EmptyInput:      "请输入你的问题",
		MissingKey:      "请设置你的 API Key！",
		remoteError:     "AI 回答错误: %d - %s",
		requestFailed:   "请求失败: %s",
		remoteNotice:    "AI 回答错误: %d",
		transportNotice: "网络或API请求失败: %s",
	},
	"en": {
		Greeting:        "Hello! I'm an AI assistant. How can I help you?",
		UserSender:      "You",
		AISender:        "AI",
		SystemPrompt:    "You are a helpful assistant.",
		Thinking:        "thinking…",
		NoAnswer:        "no answer returned",
		UnknownError:    "unknown error",
		EmptyInput:      "Please enter a question",
		MissingKey:      "Please set your API key!",
		remoteError:     "AI answer error: %d - %s",
		requestFailed:   "request failed: %s",
		remoteNotice:    "AI answer error: %d",
		transportNotice: "network or API request failed: %s",
	},
}

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "zh"

// Languages returns the supported language codes.
func Languages() []string {
	return []string{"en", "zh"}
}

// For returns the phrases for language. Unknown languages get DefaultLanguage.
func For(language string) Phrases {
	if p, ok := phrasebooks[strings.ToLower(language)]; ok {
		return p
	}
	return phrasebooks[DefaultLanguage]
}

// Supported reports whether language has its own phrasebook.
func Supported(language string) bool {
	_, ok := phrasebooks[strings.ToLower(language)]
	return ok
}

// RemoteError is the transcript text for a non-2xx reply. An empty body is
// shown as UnknownError.
func (p Phrases) RemoteError(status int, body string) string {
	if strings.TrimSpace(body) == "" {
		body = p.UnknownError
	}
	return fmt.Sprintf(p.remoteError, status, body)
}

// RequestFailed is the transcript text for a request that got no usable reply.
func (p Phrases) RequestFailed(cause string) string {
	return fmt.Sprintf(p.requestFailed, cause)
}

// RemoteNotice is the short notice raised alongside RemoteError.
func (p Phrases) RemoteNotice(status int) string {
	return fmt.Sprintf(p.remoteNotice, status)
}

// TransportNotice is the short notice raised alongside RequestFailed.
func (p Phrases) TransportNotice(cause string) string {
	return fmt.Sprintf(p.transportNotice, cause)
}
