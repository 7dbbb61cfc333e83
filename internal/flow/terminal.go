package flow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TerminalPresenter writes loading state and alerts to a terminal
type TerminalPresenter struct {
	out         io.Writer
	interactive bool
}

// NewTerminalPresenter creates a presenter writing to out. The spinner only animates on a TTY.
func NewTerminalPresenter(out io.Writer) *TerminalPresenter {
	return &TerminalPresenter{out: out, interactive: isTerminal(out)}
}

// ShowLoading prints the message and, on a TTY, animates a spinner until dismissed
func (p *TerminalPresenter) ShowLoading(message string) LoadingIndicator {
	l := &terminalLoading{out: p.out, message: message, done: make(chan struct{}), stopped: make(chan struct{})}
	if !p.interactive {
		fmt.Fprintln(p.out, message)
		close(l.stopped)
		return l
	}
	go l.spin()
	return l
}

// Alert prints the event message
func (p *TerminalPresenter) Alert(event Event) {
	fmt.Fprintln(p.out, event.Message)
}

type terminalLoading struct {
	out     io.Writer
	message string
	once    sync.Once
	done    chan struct{}
	stopped chan struct{}
}

func (l *terminalLoading) spin() {
	defer close(l.stopped)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(l.out, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], l.message)
		select {
		case <-l.done:
			fmt.Fprintf(l.out, "\r%s\r", strings.Repeat(" ", len([]rune(l.message))+2))
			return
		case <-ticker.C:
		}
	}
}

// Dismiss stops the spinner and waits for the line to be cleared
func (l *terminalLoading) Dismiss() {
	l.once.Do(func() {
		close(l.done)
		<-l.stopped
	})
}

// TerminalPrompter reads passwords from a terminal, without echo when possible
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading from in and prompting on out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// PromptPassword asks once. EOF or an empty line counts as cancel and yields "".
func (p *TerminalPrompter) PromptPassword(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, message+" ")

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
