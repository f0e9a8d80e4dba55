// Package repl is the line-oriented command processor: it prints a prompt,
// reads one line, runs it against the table and writes the transcript.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tuannm99/stbdb/internal/heap"
	"github.com/tuannm99/stbdb/internal/metrics"
	"github.com/tuannm99/stbdb/internal/record"
	"github.com/tuannm99/stbdb/internal/sql/executor"
	"github.com/tuannm99/stbdb/internal/sql/parser"
)

const DefaultPrompt = "db > "

// Transcript lines.
const (
	msgExecuted      = "Executed."
	msgStringTooLong = "String is too long."
	msgNegativeRev   = "REV must be positive."
	msgTableFull     = "Error: Table full."
	msgSyntax        = "Syntax error. Could not parse statement."
)

var ErrUnrecognizedCommand = errors.New("repl: unrecognized command")

type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type Options struct {
	Prompt  string // default DefaultPrompt
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Processor owns the table for the whole session and closes it exactly once,
// when it moves to Terminated.
type Processor struct {
	table  *heap.Table
	exec   *executor.Executor
	in     LineReader
	out    io.Writer
	prompt string
	state  State

	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(table *heap.Table, in LineReader, out io.Writer, opts Options) *Processor {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Processor{
		table:   table,
		exec:    executor.NewExecutor(table, opts.Logger),
		in:      in,
		out:     out,
		prompt:  opts.Prompt,
		state:   Running,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

func (p *Processor) State() State { return p.state }

// Run loops until .exit, end of input, an empty line or ctx cancellation.
// Storage and output errors end the loop and are returned; the table is
// closed on every path.
func (p *Processor) Run(ctx context.Context) (err error) {
	defer func() {
		err = errors.Join(err, p.terminate())
	}()

	for p.state == Running {
		if ctx.Err() != nil {
			p.log.Info("repl: cancelled", zap.Error(ctx.Err()))
			return nil
		}

		var line string
		select {
		case <-ctx.Done():
			// the pending read is abandoned; its goroutine ends with the input
			p.log.Info("repl: cancelled while reading", zap.Error(ctx.Err()))
			return nil
		case r := <-p.readLine():
			if errors.Is(r.err, io.EOF) {
				p.log.Debug("repl: end of input")
				return nil
			}
			if r.err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("read input: %w", r.err)
			}
			line = r.line
		}

		if err := p.Handle(line); err != nil {
			p.log.Error("repl: fatal", zap.String("line", line), zap.Error(err))
			return err
		}
	}
	return nil
}

type readResult struct {
	line string
	err  error
}

// readLine runs one blocking ReadLine off the loop goroutine so Run can give
// up on it when ctx is cancelled.
func (p *Processor) readLine() <-chan readResult {
	ch := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadLine(p.prompt)
		ch <- readResult{line: line, err: err}
	}()
	return ch
}

// Handle runs one input line. Rejected commands print one line and return
// nil; a non-nil error is fatal.
func (p *Processor) Handle(line string) error {
	if p.state != Running {
		return nil
	}
	if line == "" {
		return p.terminate()
	}

	if strings.HasPrefix(line, ".") {
		err := p.doMetaCommand(line)
		if errors.Is(err, ErrUnrecognizedCommand) {
			return p.printf("Unrecognized command '%s'\n", line)
		}
		return err
	}

	stmt, err := parser.Parse(line)
	if err != nil {
		return p.reject(line, err)
	}

	res, err := p.exec.Execute(stmt)
	if err != nil {
		return p.reject(line, err)
	}

	for _, row := range res.Rows {
		if err := p.println(record.FormatRow(row)); err != nil {
			return err
		}
	}
	return p.println(msgExecuted)
}

// reject prints the message of a recoverable error; anything else is fatal.
func (p *Processor) reject(line string, err error) error {
	p.log.Debug("repl: rejected", zap.String("line", line), zap.Error(err))

	switch {
	case errors.Is(err, record.ErrStringTooLong):
		p.metrics.RowRejected(metrics.ReasonStringTooLong)
		return p.println(msgStringTooLong)
	case errors.Is(err, record.ErrNegativeValue):
		p.metrics.RowRejected(metrics.ReasonNegativeValue)
		return p.println(msgNegativeRev)
	case errors.Is(err, heap.ErrTableFull):
		p.metrics.RowRejected(metrics.ReasonTableFull)
		return p.println(msgTableFull)
	case errors.Is(err, parser.ErrSyntax), errors.Is(err, record.ErrRevOutOfRange):
		p.metrics.RowRejected(metrics.ReasonSyntax)
		return p.println(msgSyntax)
	case errors.Is(err, parser.ErrUnrecognizedStatement), errors.Is(err, parser.ErrEmptyStatement):
		return p.printf("Unrecognized keyword at start of '%s'.\n", line)
	default:
		return err
	}
}

func (p *Processor) terminate() error {
	if p.state == Terminated {
		return nil
	}
	p.state = Terminated
	return p.table.Close()
}

func (p *Processor) println(s string) error {
	_, err := io.WriteString(p.out, s+"\n")
	return err
}

func (p *Processor) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.out, format, args...)
	return err
}
