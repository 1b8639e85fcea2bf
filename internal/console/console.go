package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/core"
	"github.com/vovakirdan/lanchat/internal/engine"
)

// Engine is the part of the chat engine the console drives.
type Engine interface {
	Send(ctx context.Context, content string) error
	Subscribe() (string, <-chan engine.Update)
	Unsubscribe(id string)
}

// Console renders the view to a terminal and forwards typed lines to the engine.
type Console struct {
	engine Engine
	in     io.Reader
	out    io.Writer
	log    *zerolog.Logger

	printed   []core.ChatMessage
	status    core.ConnectionStatus
	lastError string
}

// New builds a console reading lines from in and writing the transcript to out.
func New(eng Engine, in io.Reader, out io.Writer, logger *zerolog.Logger) *Console {
	return &Console{engine: eng, in: in, out: out, log: logger}
}

// PromptNickname asks once for a nickname and returns the trimmed answer.
func PromptNickname(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter your nickname: ")
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read nickname: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Run renders updates and sends input lines until ctx is done. Rendering
// continues after the input is exhausted.
func (c *Console) Run(ctx context.Context) error {
	subID, updates := c.engine.Subscribe()
	defer c.engine.Unsubscribe(subID)

	lines := make(chan string)
	go func(out chan<- string) {
		defer close(out)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}(lines)

	fmt.Fprintln(c.out, "Type messages and press Enter to send. Ctrl+C to exit.")

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			c.render(u)
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := c.engine.Send(ctx, line); err != nil {
				fmt.Fprintf(c.out, "! %v\n", err)
			}
		}
	}
}

func (c *Console) render(u engine.Update) {
	if u.Session.Status != c.status {
		c.status = u.Session.Status
		fmt.Fprintf(c.out, "* %s\n", c.status.Text())
	}
	if u.Session.LastError != c.lastError {
		c.lastError = u.Session.LastError
		if c.lastError != "" {
			fmt.Fprintf(c.out, "! %s\n", c.lastError)
		}
	}

	start := len(c.printed)
	if !hasPrefix(u.View, c.printed) {
		c.log.Debug().Int("printed", len(c.printed)).Int("view", len(u.View)).Msg("log diverged, reprinting")
		fmt.Fprintln(c.out, "--- log reset ---")
		start = 0
	}
	for _, msg := range u.View[start:] {
		fmt.Fprintf(c.out, "%s: %s\n", msg.Sender, msg.Content)
	}
	c.printed = u.View
}

func hasPrefix(view, printed []core.ChatMessage) bool {
	if len(printed) > len(view) {
		return false
	}
	for i := range printed {
		if view[i] != printed[i] {
			return false
		}
	}
	return true
}
