// Package chat runs the interactive question/answer loop against the chat completion API.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tnglemongrass/askai/internal/commands"
	"github.com/tnglemongrass/askai/internal/config"
	"github.com/tnglemongrass/askai/internal/llm"
	"github.com/tnglemongrass/askai/internal/models"
	"github.com/tnglemongrass/askai/internal/prompts"
	"github.com/tnglemongrass/askai/internal/render"
	"github.com/tnglemongrass/askai/internal/transcript"
)

var (
	// ErrEmptyInput is returned by Submit for empty or whitespace-only input.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingAPIKey is returned by Submit when no API key is configured.
	ErrMissingAPIKey = errors.New("no API key configured")
	// ErrClosed is returned by Await once the session has been closed.
	ErrClosed = errors.New("session closed")
)

// InputReader reads a line of user input. Returns the line and any error (io.EOF on end).
type InputReader func(prompt string) (string, error)

// Asker performs one request/response exchange. ok is false when the
// endpoint succeeded without returning an answer.
type Asker interface {
	Ask(ctx context.Context, req llm.ChatRequest) (answer string, ok bool, err error)
}

// Session owns the transcript and every turn submitted against it. All
// methods must be called from the same goroutine; request goroutines hand
// their results back through a channel drained by Pump and Await.
type Session struct {
	cfg        *config.Config
	phrases    prompts.Phrases
	asker      Asker
	httpClient *http.Client
	modelMgr   *models.Manager
	buffer     *transcript.Buffer
	view       *render.View
	cmdReg     *commands.Registry
	logger     *slog.Logger

	done      chan completion
	closed    chan struct{}
	closeOnce sync.Once
	inflight  map[uuid.UUID]*Turn
}

type completion struct {
	turn   *Turn
	answer string
	ok     bool
	err    error
}

// NewSession creates a new chat session from the given configuration.
func NewSession(cfg *config.Config, w io.Writer, logger *slog.Logger) (*Session, error) {
	if w == nil {
		w = os.Stdout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r, err := render.NewRenderer(w)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	hc := llm.NewHTTPClient(llm.Timeouts{
		Connect: cfg.ConnectTimeout,
		Read:    cfg.ReadTimeout,
		Write:   cfg.WriteTimeout,
	})
	phrases := cfg.Phrases()

	s := &Session{
		cfg:        cfg,
		phrases:    phrases,
		httpClient: hc,
		asker: llm.NewClient(llm.Options{
			Endpoint:   cfg.ChatEndpoint(),
			APIKey:     cfg.APIKey,
			HTTPClient: hc,
			Logger:     logger,
		}),
		modelMgr: models.NewManager(cfg.APIBase, cfg.APIKey, hc),
		view:     render.NewView(r, phrases.AISender),
		logger:   logger.With(slog.String("component", "chat")),
		done:     make(chan completion, 8),
		closed:   make(chan struct{}),
		inflight: make(map[uuid.UUID]*Turn),
	}
	s.buffer = transcript.New(s.view.Show)

	reg := commands.NewRegistry()
	commands.RegisterDefaults(reg, commands.Callbacks{
		OnClear:      s.clearTranscript,
		OnTranscript: s.showTranscript,
		OnModel:      s.switchModel,
		OnSystem:     s.systemPrompt,
		OnConfig:     s.showConfig,
	})
	s.cmdReg = reg

	return s, nil
}

// Run prints the greeting and then reads and answers questions until EOF or /quit.
// Input is not read again until the previous turn has resolved.
func (s *Session) Run(ctx context.Context, readInput InputReader) error {
	if s.buffer.Len() == 0 {
		s.view.Greeting(s.phrases.Greeting)
	}
	for {
		input, err := readInput("> ")
		if err != nil {
			if err == io.EOF {
				return s.Await(ctx)
			}
			return err
		}

		if commands.IsCommand(input) {
			output, _ := s.cmdReg.Execute(input)
			if output == commands.Quit {
				return s.Await(ctx)
			}
			s.view.Print(output)
			continue
		}

		if _, err := s.Submit(ctx, input); err != nil {
			continue
		}
		if err := s.Await(ctx); err != nil {
			return err
		}
	}
}

// Submit starts a turn for input without waiting for the answer. The user's
// line and a placeholder are appended to the transcript before the request
// is sent. Empty input and a missing API key raise a notice and leave the
// transcript untouched.
func (s *Session) Submit(ctx context.Context, input string) (*Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		s.view.Notice(s.phrases.EmptyInput)
		return nil, ErrEmptyInput
	}
	if s.cfg.APIKey == "" {
		s.view.Notice(s.phrases.MissingKey)
		return nil, ErrMissingAPIKey
	}

	turn := &Turn{Question: input}
	s.buffer.Append(s.phrases.UserSender, input)
	turn.Placeholder = s.buffer.Append(s.phrases.AISender, s.phrases.Thinking).ID

	maxTokens := s.cfg.MaxTokens
	req := llm.NewChatRequest(s.cfg.Model, s.phrases.SystemPrompt, input, &maxTokens, s.cfg.Temperature)
	turn.State = Sent
	s.inflight[turn.Placeholder] = turn
	s.logger.Debug("turn sent", slog.String("turn", turn.Placeholder.String()), slog.String("model", req.Model))

	go func() {
		answer, ok, err := s.asker.Ask(ctx, req)
		select {
		case s.done <- completion{turn: turn, answer: answer, ok: ok, err: err}:
		case <-s.closed:
		}
	}()
	return turn, nil
}

// Pending returns the number of turns still waiting for an answer.
func (s *Session) Pending() int {
	return len(s.inflight)
}

// Pump resolves every turn whose answer has already arrived and returns how many it resolved.
func (s *Session) Pump() int {
	n := 0
	for {
		select {
		case c := <-s.done:
			s.resolve(c)
			n++
		default:
			return n
		}
	}
}

// Await resolves turns as their answers arrive until none is in flight.
func (s *Session) Await(ctx context.Context) error {
	for len(s.inflight) > 0 {
		select {
		case <-s.closed:
			return ErrClosed
		default:
		}
		select {
		case c := <-s.done:
			s.resolve(c)
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return ErrClosed
		}
	}
	return nil
}

// resolve writes the final text of a turn over its placeholder, exactly once.
func (s *Session) resolve(c completion) {
	turn := c.turn
	if _, ok := s.inflight[turn.Placeholder]; !ok {
		return
	}
	delete(s.inflight, turn.Placeholder)

	switch {
	case c.err != nil:
		turn.State = Failed
		turn.Err = c.err
		turn.Answer = s.failureText(c.err)
	case !c.ok || c.answer == "":
		turn.State = Succeeded
		turn.Answer = s.phrases.NoAnswer
	default:
		turn.State = Succeeded
		turn.Answer = c.answer
	}

	if _, ok := s.buffer.Replace(turn.Placeholder, turn.Answer); !ok {
		s.buffer.ReplaceLast(s.phrases.AISender, turn.Answer)
	}
	s.logger.Debug("turn resolved",
		slog.String("turn", turn.Placeholder.String()),
		slog.String("state", turn.State.String()),
	)
}

func (s *Session) failureText(err error) string {
	var rerr *llm.RemoteError
	if errors.As(err, &rerr) {
		s.view.Notice(s.phrases.RemoteNotice(rerr.StatusCode))
		return s.phrases.RemoteError(rerr.StatusCode, rerr.Body)
	}
	s.view.Notice(s.phrases.TransportNotice(err.Error()))
	return s.phrases.RequestFailed(err.Error())
}

// Transcript returns a copy of the current transcript entries.
func (s *Session) Transcript() []transcript.Entry {
	return s.buffer.Entries()
}

// Close releases idle connections held by the session's HTTP client. Answers
// still undelivered are dropped. Close may be called more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.httpClient.CloseIdleConnections()
}

func (s *Session) clearTranscript() {
	s.buffer.Clear()
}

func (s *Session) showTranscript() string {
	if s.buffer.Len() == 0 {
		return s.phrases.Greeting
	}
	return strings.TrimRight(s.buffer.String(), "\n")
}

func (s *Session) switchModel(args string) string {
	if args == "" {
		modelList, err := s.modelMgr.List(context.Background())
		if err != nil {
			return fmt.Sprintf("Error listing models: %v", err)
		}
		var sb strings.Builder
		sb.WriteString("Available models:\n")
		for _, m := range modelList {
			marker := "  "
			if m.ID == s.cfg.Model {
				marker = "* "
			}
			sb.WriteString(fmt.Sprintf("%s%s\n", marker, m.ID))
		}
		return sb.String()
	}
	if args == "refresh" {
		s.modelMgr.Invalidate()
		return s.switchModel("")
	}

	s.cfg.Model = args
	msg := fmt.Sprintf("Switched to model: %s", args)
	known, err := s.modelMgr.Has(context.Background(), args)
	switch {
	case err != nil:
		s.logger.Warn("model lookup failed", slog.String("model", args), slog.Any("error", err))
	case !known:
		msg += fmt.Sprintf("\nWarning: %s is not in the list of available models.", args)
	}
	return msg
}

func (s *Session) systemPrompt(args string) string {
	if args == "" {
		return s.phrases.SystemPrompt
	}
	s.phrases.SystemPrompt = args
	s.cfg.SystemPrompt = args
	return "System prompt updated."
}

func (s *Session) showConfig() string {
	temperature := "unset"
	if s.cfg.Temperature != nil {
		temperature = fmt.Sprintf("%.2f", *s.cfg.Temperature)
	}
	return fmt.Sprintf("Model: %s\nEndpoint: %s\nAPI Key: %s\nMax Tokens: %d\nTemperature: %s\nLanguage: %s\nTimeouts: connect %s, read %s, write %s",
		s.cfg.Model, s.cfg.ChatEndpoint(), maskKey(s.cfg.APIKey), s.cfg.MaxTokens, temperature, s.cfg.Language,
		s.cfg.ConnectTimeout, s.cfg.ReadTimeout, s.cfg.WriteTimeout)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
