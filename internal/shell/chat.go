package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"RocketClient/internal/avatar"
	"RocketClient/internal/backend"
	"RocketClient/internal/chat"
	"RocketClient/internal/store"
)

var errNotInChat = errors.New("not in the chat room, use /chat to join")

// enterChat prints the history and opens the live socket
func (s *Shell) enterChat(ctx context.Context) error {
	s.mu.Lock()
	joined := s.chat != nil
	s.mu.Unlock()
	if joined {
		s.printf("Already in the chat room\n")
		return nil
	}

	history, err := s.api.ChatHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chat history: %w", err)
	}
	for _, msg := range history {
		s.printMessage(msg)
	}

	client, err := chat.NewClient(s.api.ChatURL(), s.logger,
		chat.WithJar(s.api.Jar()),
		chat.WithHeader(s.api.AuthHeader()),
		chat.WithInstruments(s.inst),
		chat.WithErrorHandler(func(err error) {
			s.logger.Warn("chat error", "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create chat client: %w", err)
	}
	if err := client.Connect(ctx, s.onChatMessage); err != nil {
		return fmt.Errorf("failed to join chat: %w", err)
	}

	s.mu.Lock()
	s.chat = client
	s.leaving = false
	s.mu.Unlock()

	go s.watchChat(client)

	s.printf("Joined the chat room. Type to send, /react <id>, /leave to exit.\n")
	return nil
}

// watchChat reports a dropped connection. The shell does not reconnect on
// its own; /chat joins again.
func (s *Shell) watchChat(client *chat.Client) {
	<-client.Done()

	s.mu.Lock()
	current := s.chat == client
	leaving := s.leaving
	if current {
		s.chat = nil
	}
	s.mu.Unlock()

	if current && !leaving {
		s.logger.Warn("chat connection lost")
		s.printf("\nChat connection lost. Use /chat to rejoin.\n")
	}
}

// onChatMessage prints every frame. Only chat messages go into the
// transcript; reaction counts are transient.
func (s *Shell) onChatMessage(msg backend.ChatMessage) {
	if !msg.IsReaction() {
		s.mu.Lock()
		s.transcript.Messages = append(s.transcript.Messages, msg)
		s.mu.Unlock()
	}
	s.printMessage(msg)
}

func (s *Shell) printMessage(msg backend.ChatMessage) {
	if msg.IsReaction() {
		reactions := 0
		if msg.Reactions != nil {
			reactions = *msg.Reactions
		}
		s.printf("  * message %s now has %d reactions\n", msg.MessageID, reactions)
		return
	}

	line := fmt.Sprintf("[%s] %s %s: %s", avatar.Initials(msg.Username), msg.Username, msg.Timestamp, msg.Message)
	if msg.ID != "" {
		line += fmt.Sprintf("  (id %s", msg.ID)
		if msg.Reactions != nil && *msg.Reactions > 0 {
			line += fmt.Sprintf(", %d reactions", *msg.Reactions)
		}
		line += ")"
	}
	s.printf("%s\n", line)
}

func (s *Shell) activeChat() *chat.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat
}

// say sends text to the chat room
func (s *Shell) say(text string) error {
	client := s.activeChat()
	if client == nil {
		return errNotInChat
	}
	return client.SendMessage(text)
}

func (s *Shell) react(messageID string) error {
	client := s.activeChat()
	if client == nil {
		return errNotInChat
	}
	return client.SendReaction(messageID)
}

// leaveChat closes the socket if one is open
func (s *Shell) leaveChat() bool {
	s.mu.Lock()
	client := s.chat
	s.chat = nil
	s.leaving = true
	s.mu.Unlock()

	if client == nil {
		return false
	}
	if err := client.Close(); err != nil {
		s.logger.Warn("failed to close chat", "error", err)
	}
	return true
}

// PrintTranscript writes a saved chat transcript to out
func PrintTranscript(st *store.Store, id string, out io.Writer) error {
	t, err := st.LoadTranscript(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Transcript %s (%s, started %s)\n", t.ID, t.BaseURL, t.StartTime.Format(time.RFC3339))
	for _, msg := range t.Messages {
		fmt.Fprintf(out, "[%s] %s %s: %s\n", avatar.Initials(msg.Username), msg.Username, msg.Timestamp, msg.Message)
	}
	return nil
}
