package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader shows prompt and returns the next input line without its line
// terminator. It returns io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PromptReader is the non-interactive reader: it writes the prompt to w with
// no newline and reads r one line at a time.
type PromptReader struct {
	r *bufio.Reader
	w io.Writer
}

func NewPromptReader(r io.Reader, w io.Writer) *PromptReader {
	return &PromptReader{r: bufio.NewReader(r), w: w}
}

func (p *PromptReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(p.w, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		// last line without a terminator still counts
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// ReadlineReader is the interactive reader for terminals: line editing and an
// optional history file.
type ReadlineReader struct {
	rl *readline.Instance
}

func NewReadlineReader(prompt, historyFile string) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}
	return &ReadlineReader{rl: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C drops the current line
			continue
		}
		if err != nil {
			return "", err
		}
		return line, nil
	}
}

func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// IsTerminal reports whether fd is an interactive terminal.
func IsTerminal(fd uintptr) bool {
	return readline.IsTerminal(int(fd))
}
