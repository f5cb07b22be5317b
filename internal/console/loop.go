// Package console runs the line-oriented chat loop on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"qabot/internal/domain"
)

// State is the loop's position in its read/process cycle.
type State int

const (
	WaitingForInput State = iota
	Processing
	Stopped
)

func (s State) String() string {
	switch s {
	case WaitingForInput:
		return "waiting"
	case Processing:
		return "processing"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures the loop's wording.
type Options struct {
	Prompt      string
	ExitKeyword string
}

// DefaultOptions returns the standard prompt and exit keyword.
func DefaultOptions() Options {
	return Options{Prompt: "You: ", ExitKeyword: "exit"}
}

// Loop reads questions line by line and prints the chat service's replies.
type Loop struct {
	svc    domain.ChatService
	in     io.Reader
	out    io.Writer
	opts   Options
	state  State
	logger *zap.Logger
}

func NewLoop(svc domain.ChatService, in io.Reader, out io.Writer, opts Options, logger *zap.Logger) *Loop {
	if opts.Prompt == "" {
		opts.Prompt = DefaultOptions().Prompt
	}
	if opts.ExitKeyword == "" {
		opts.ExitKeyword = DefaultOptions().ExitKeyword
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{svc: svc, in: in, out: out, opts: opts, logger: logger}
}

// State returns the current loop state.
func (l *Loop) State() State { return l.state }

// Run loops until the exit keyword, end of input or ctx cancellation.
// Input is read on a separate goroutine so cancellation also ends a loop
// that is blocked waiting for a line.
func (l *Loop) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(l.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	defer func() { l.state = Stopped }()
	for {
		l.state = WaitingForInput
		fmt.Fprint(l.out, l.opts.Prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out, "\nShutting down...")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(l.out)
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
			default:
			}
			return nil
		}

		line = strings.TrimRight(line, "\r")
		if strings.EqualFold(line, l.opts.ExitKeyword) {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(l.out, "Chatbot: Please ask a question.")
			continue
		}

		l.state = Processing
		reply, err := l.respond(ctx, line)
		if ctx.Err() != nil {
			fmt.Fprintln(l.out, "\nShutting down...")
			return nil
		}
		if err != nil {
			l.logger.Warn("query failed", zap.String("question", line), zap.Error(err))
			fmt.Fprintf(l.out, "Unexpected error: %v\n", err)
			continue
		}
		fmt.Fprintln(l.out, "Chatbot: "+reply)
	}
}

// respond turns a panic in the service into an error so one bad query
// cannot end the session.
func (l *Loop) respond(ctx context.Context, question string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l.svc.Respond(ctx, question)
}
