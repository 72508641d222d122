package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"RocketClient/internal/api"
	"RocketClient/internal/backend"
	"RocketClient/internal/chat"
	"RocketClient/internal/config"
	"RocketClient/internal/elevation"
	"RocketClient/internal/guard"
	"RocketClient/internal/session"
	"RocketClient/internal/store"
	"RocketClient/internal/telemetry"
)

// Shell is the interactive Rocket client
type Shell struct {
	config    config.Config
	api       *api.Client
	elevation *elevation.Client
	guard     *guard.Guard
	state     *session.State
	store     *store.Store
	logger    *slog.Logger
	inst      telemetry.Instruments

	in  io.Reader
	out io.Writer

	mu         sync.Mutex // guards out, chat and transcript
	chat       *chat.Client
	leaving    bool
	transcript *session.Transcript
	page       string
}

// New wires the clients for cfg. The store may be nil, in which case
// nothing is persisted between runs.
func New(cfg config.Config, st *store.Store, logger *slog.Logger, inst telemetry.Instruments, in io.Reader, out io.Writer) (*Shell, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	apiClient, err := api.New(cfg, logger, inst)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	elev, err := elevation.NewClient(cfg.ElevationURL, cfg.Timeout, logger, inst)
	if err != nil {
		return nil, fmt.Errorf("failed to create elevation client: %w", err)
	}

	state := session.NewState()
	g, err := guard.New(apiClient, state, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create guard: %w", err)
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	return &Shell{
		config:     cfg,
		api:        apiClient,
		elevation:  elev,
		guard:      g,
		state:      state,
		store:      st,
		logger:     logger,
		inst:       inst.OrGlobal(),
		in:         in,
		out:        out,
		transcript: session.NewTranscript(apiClient.BaseURL()),
	}, nil
}

// printf serialises output from the prompt loop and the chat reader
func (s *Shell) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// restore loads saved cookies and asks the backend whether they still work
func (s *Shell) restore(ctx context.Context) {
	if s.store == nil {
		return
	}
	cookies, err := s.store.LoadCookies(s.api.BaseURL())
	if err != nil {
		s.logger.Warn("failed to load cookies", "error", err)
		return
	}
	if len(cookies) == 0 {
		return
	}
	s.api.RestoreSession(cookies)

	if _, err := s.guard.Navigate(ctx, "/"); err != nil {
		s.logger.Warn("failed to check restored session", "error", err)
		return
	}
	if !s.state.LoggedIn() {
		s.logger.Info("saved session expired")
		return
	}
	if user, err := s.api.CurrentUser(ctx); err == nil {
		s.state.SetUser(user.Username)
	}
}

// persist writes the cookies and, when chat was used, the transcript
func (s *Shell) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveCookies(s.api.BaseURL(), s.api.SessionCookies()); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	s.mu.Lock()
	snapshot := *s.transcript
	snapshot.Messages = append([]backend.ChatMessage(nil), s.transcript.Messages...)
	s.mu.Unlock()
	if len(snapshot.Messages) == 0 {
		return nil
	}
	if err := s.store.SaveTranscript(&snapshot); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// Run reads lines until /quit or end of input
func (s *Shell) Run(ctx context.Context) error {
	s.restore(ctx)

	s.printf("=== Rocket ===\n")
	s.printf("Backend: %s\n", s.api.BaseURL())
	if s.state.LoggedIn() {
		s.printf("Logged in as %s\n", s.state.Username())
	}
	s.printf("Type /help for commands, /quit to exit\n\n")

	scanner := bufio.NewScanner(s.in)
	for {
		s.printf("%s> ", s.prompt())
		if !scanner.Scan() {
			break
		}

		quit, err := s.handleLine(ctx, scanner.Text())
		if err != nil {
			s.printf("Error: %v\n", err)
			s.logger.Error("command error", "error", err)
		}
		if quit {
			break
		}
	}

	s.leaveChat()

	if err := s.persist(); err != nil {
		s.logger.Error("failed to persist state on exit", "error", err)
		return err
	}

	s.printf("Goodbye!\n")
	return nil
}

func (s *Shell) prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat != nil {
		return "chat"
	}
	if s.page != "" {
		return s.page
	}
	return "rocket"
}

// handleLine runs one line of input. Plain text goes to the chat room.
func (s *Shell) handleLine(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if strings.HasPrefix(line, "/") {
		return s.handleCommand(ctx, line)
	}
	return false, s.say(line)
}
