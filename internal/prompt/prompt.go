// Package prompt asks the user for a line of text, either with a native
// dialog or on the terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lvonsydow/colama/internal/probe"
)

// Asker asks for one line of text. ok is false when the user dismissed the
// prompt.
type Asker interface {
	Ask(ctx context.Context, title, message, defaultText string) (answer string, ok bool, err error)
}

// osascript exits with status 1 and this code when the dialog is cancelled.
const userCanceled = "(-128)"

// Dialog shows a macOS text input dialog through osascript.
type Dialog struct {
	Runner probe.Runner
}

// NewDialog creates a Dialog that runs osascript with os/exec.
func NewDialog() *Dialog {
	return &Dialog{Runner: probe.ExecRunner{}}
}

func (d *Dialog) Ask(ctx context.Context, title, message, defaultText string) (string, bool, error) {
	out, err := d.Runner.Run(ctx, "osascript", "-e", dialogScript(title, message, defaultText))
	if err != nil {
		var cmdErr *probe.CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, userCanceled) {
			return "", false, nil
		}
		return "", false, err
	}
	answer, ok := parseDialogOutput(string(out))
	if !ok {
		return "", false, fmt.Errorf("unexpected dialog output: %q", strings.TrimSpace(string(out)))
	}
	return answer, true, nil
}

func dialogScript(title, message, defaultText string) string {
	return fmt.Sprintf(`display dialog %s default answer %s with title %s buttons {"Cancel", "OK"} default button "OK"`,
		quote(message), quote(defaultText), quote(title))
}

// quote renders s as an AppleScript string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// parseDialogOutput extracts the answer from osascript's record output,
// e.g. "button returned:OK, text returned:/opt/homebrew/bin".
func parseDialogOutput(out string) (string, bool) {
	const key = "text returned:"
	out = strings.TrimRight(out, "\r\n")
	i := strings.Index(out, key)
	if i < 0 {
		return "", false
	}
	return out[i+len(key):], true
}

// Terminal reads the answer from a line of input.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal creates a Terminal on stdin and stdout.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// Ask prints the message with the default in brackets. An empty line
// accepts the default, end of input dismisses the prompt.
func (t *Terminal) Ask(ctx context.Context, title, message, defaultText string) (string, bool, error) {
	if title != "" {
		fmt.Fprintln(t.Out, title)
	}
	fmt.Fprintf(t.Out, "%s [%s]: ", message, defaultText)

	type line struct {
		text string
		err  error
	}
	ch := make(chan line, 1)
	go func() {
		text, err := bufio.NewReader(t.In).ReadString('\n')
		ch <- line{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case l := <-ch:
		if l.err != nil && l.text == "" {
			if l.err == io.EOF {
				return "", false, nil
			}
			return "", false, l.err
		}
		answer := strings.TrimSpace(l.text)
		if answer == "" {
			answer = defaultText
		}
		return answer, true, nil
	}
}

// Default picks the terminal prompt when stdin is a terminal and the native
// dialog otherwise.
func Default() Asker {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewTerminal()
	}
	return NewDialog()
}
