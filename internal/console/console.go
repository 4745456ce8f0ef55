// Package console runs the interactive command loop as a lifecycle service.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monfuse/internal/dispatch"
)

// Banner is printed once when the session starts.
const Banner = "=== DIGITAL MONSTER FUSION INTERPRETER ===\n" +
	"Type 'help' to view available commands. Type 'exit' to quit.\n"

// Executor runs one line of input. *dispatch.Dispatcher satisfies it.
type Executor interface {
	Execute(ctx context.Context, line string) (dispatch.Response, error)
	Persist(ctx context.Context) error
}

// Console reads commands from in and writes responses to out.
type Console struct {
	exec    Executor
	in      io.Reader
	out     io.Writer
	prompt  string
	logger  *zap.Logger
	session string

	done     chan struct{}
	finished chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
	commands atomic.Int64
}

// New creates a Console with a fresh session id.
//
// Precondition: every argument must be non-nil.
func New(exec Executor, in io.Reader, out io.Writer, prompt string, logger *zap.Logger) *Console {
	session := uuid.NewString()
	return &Console{
		exec:     exec,
		in:       in,
		out:      out,
		prompt:   prompt,
		logger:   logger.With(zap.String("session", session)),
		session:  session,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// SessionID returns the id attached to every log line of this session.
func (c *Console) SessionID() string { return c.session }

// Start runs the read-execute-print loop until exit, end of input, Stop, or
// ctx cancellation. A persistence failure ends the session and is returned.
//
// Postcondition: Returns nil on a normal end of session.
func (c *Console) Start(ctx context.Context) error {
	c.started.Store(true)
	defer close(c.finished)
	c.logger.Info("session started")
	c.print(Banner)

	lines, scanErr := c.scan()
	for {
		c.print("\n" + c.prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case line, ok = <-lines:
		}
		select {
		case <-c.done:
			return nil
		default:
		}
		if !ok {
			if err := <-scanErr; err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			c.logger.Info("end of input")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		c.commands.Add(1)
		resp, err := c.exec.Execute(ctx, line)
		if resp.Text != "" {
			c.print(resp.Text + "\n")
		}
		if err != nil {
			var perr *dispatch.PersistError
			if errors.As(err, &perr) {
				c.print("Error: " + err.Error() + "\n")
				return err
			}
			c.logger.Warn("command failed", zap.String("line", line), zap.Error(err))
			continue
		}
		if resp.Quit {
			return nil
		}
	}
}

// scan feeds input lines to the returned channel until EOF or Stop. The error
// channel receives the scanner error once the line channel is closed.
func (c *Console) scan() (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-c.done:
				errCh <- nil
				return
			}
		}
		errCh <- scanner.Err()
	}()
	return lines, errCh
}

// Stop ends the session, waits for an in-flight command to finish, and
// writes the encyclopedia one last time. Only the first call saves.
func (c *Console) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		close(c.done)
		if c.started.Load() {
			select {
			case <-c.finished:
			case <-ctx.Done():
				err = fmt.Errorf("waiting for session to end: %w", ctx.Err())
				return
			}
		}
		err = c.exec.Persist(ctx)
		c.logger.Info("session ended", zap.Int64("commands", c.commands.Load()), zap.Bool("saved", err == nil))
	})
	return err
}

func (c *Console) print(s string) {
	// Terminal output is best effort.
	_, _ = io.WriteString(c.out, s)
}
