package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "A test command", func(args string) string {
		return "result:" + args
	})

	out, found := r.Execute("/test hello")
	assert.True(t, found)
	assert.Equal(t, "result:hello", out)
}

func TestExecuteUnknown(t *testing.T) {
	r := NewRegistry()
	out, found := r.Execute("/unknown")
	assert.True(t, found)
	assert.Contains(t, out, "Unknown command")
}

func TestExecuteNonCommand(t *testing.T) {
	r := NewRegistry()
	out, found := r.Execute("What is 2+2?")
	assert.False(t, found)
	assert.Empty(t, out)
}

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("/help"))
	assert.True(t, IsCommand("  /model qwen"))
	assert.False(t, IsCommand("hello"))
	assert.False(t, IsCommand(""))
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	cleared := false
	RegisterDefaults(r, Callbacks{
		OnClear:      func() { cleared = true },
		OnTranscript: func() string { return "你: hi" },
	})

	out, found := r.Execute("/help")
	assert.True(t, found)
	assert.Contains(t, out, "/help")
	assert.Contains(t, out, "/quit")
	assert.Contains(t, out, "/model")
	assert.Contains(t, out, "/transcript")

	out, found = r.Execute("/clear")
	assert.True(t, found)
	assert.True(t, cleared)
	assert.Contains(t, out, "cleared")

	out, _ = r.Execute("/transcript")
	assert.Equal(t, "你: hi", out)

	out, found = r.Execute("/quit")
	assert.True(t, found)
	assert.Equal(t, Quit, out)

	out, found = r.Execute("/exit")
	assert.True(t, found)
	assert.Equal(t, Quit, out)
}

func TestDefaultCallbacksNil(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r, Callbacks{})

	out, _ := r.Execute("/model qwen")
	assert.Contains(t, out, "not configured")

	out, _ = r.Execute("/config")
	assert.Contains(t, out, "not configured")

	out, _ = r.Execute("/transcript")
	assert.Contains(t, out, "not available")
}

func TestCommandWithNoArgs(t *testing.T) {
	r := NewRegistry()
	r.Register("ping", "Ping", func(args string) string {
		return "pong:" + args
	})

	out, found := r.Execute("/ping")
	assert.True(t, found)
	assert.Equal(t, "pong:", out)
}
