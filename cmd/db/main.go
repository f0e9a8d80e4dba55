package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/tuannm99/stbdb/internal"
	"github.com/tuannm99/stbdb/internal/heap"
	"github.com/tuannm99/stbdb/internal/metrics"
	"github.com/tuannm99/stbdb/internal/repl"
	"github.com/tuannm99/stbdb/pkg/logger"
)

// CLI flags override the config file, which overrides STBDB_* variables and defaults.
type CLI struct {
	Filename string `arg:"" optional:"" help:"Database file, created if missing."`

	Config      string `name:"config" short:"c" help:"YAML config file." type:"path"`
	PageSize    int    `name:"page-size" help:"Page size in bytes."`
	MaxPages    int    `name:"max-pages" help:"Maximum number of pages in the file."`
	LogLevel    string `name:"log-level" help:"debug, info, warn or error."`
	LogFormat   string `name:"log-format" help:"console or json."`
	LogOutput   string `name:"log-output" help:"stderr, stdout or a file path."`
	History     string `name:"history" help:"History file for interactive sessions." type:"path"`
	MetricsAddr string `name:"metrics-addr" help:"Serve prometheus metrics on this address (e.g. 127.0.0.1:9100)."`
}

func (c *CLI) apply(cfg *internal.StbDBConfig) {
	if c.PageSize > 0 {
		cfg.Storage.PageSize = c.PageSize
	}
	if c.MaxPages > 0 {
		cfg.Storage.MaxPages = c.MaxPages
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if c.LogOutput != "" {
		cfg.Log.OutputFile = c.LogOutput
	}
	if c.History != "" {
		cfg.REPL.History = c.History
	}
	if c.MetricsAddr != "" {
		cfg.Metrics.Addr = c.MetricsAddr
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// a second signal kills the process the default way
		<-ctx.Done()
		stop()
	}()

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("db"),
		kong.Description("Single-table row store driven by insert/select commands on stdin."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "db: %v\n", err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "db: %v\n", err)
		return 2
	}

	if cli.Filename == "" {
		fmt.Fprintln(stdout, "Must supply a database filename.")
		return 1
	}

	cfg, err := internal.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "db: %v\n", err)
		return 1
	}
	cli.apply(cfg)

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "db: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		shutdown, err := serveMetrics(cfg.Metrics.Addr, m, log)
		if err != nil {
			fmt.Fprintf(stderr, "db: %v\n", err)
			return 1
		}
		defer shutdown()
	}

	tbl, err := heap.Open(cli.Filename, heap.Options{
		PageSize: cfg.Storage.PageSize,
		MaxPages: cfg.Storage.MaxPages,
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		log.Error("open database", zap.String("path", cli.Filename), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	in, closeIn, err := lineReader(stdin, stdout, cfg)
	if err != nil {
		_ = tbl.Close()
		fmt.Fprintf(stderr, "db: %v\n", err)
		return 1
	}
	defer closeIn()

	p := repl.New(tbl, in, stdout, repl.Options{
		Prompt:  cfg.REPL.Prompt,
		Logger:  log,
		Metrics: m,
	})
	if err := p.Run(ctx); err != nil {
		log.Error("session ended with error", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// lineReader picks readline for terminals and a plain prompt reader otherwise,
// so piped transcripts stay byte-exact.
func lineReader(stdin io.Reader, stdout io.Writer, cfg *internal.StbDBConfig) (repl.LineReader, func(), error) {
	if f, ok := stdin.(*os.File); ok && repl.IsTerminal(f.Fd()) {
		rl, err := repl.NewReadlineReader(cfg.REPL.Prompt, cfg.REPL.History)
		if err != nil {
			return nil, nil, err
		}
		return rl, func() { _ = rl.Close() }, nil
	}
	return repl.NewPromptReader(stdin, stdout), func() {}, nil
}

func serveMetrics(addr string, m *metrics.Metrics, log *zap.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("metrics: serving", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
