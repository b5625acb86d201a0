package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	_ "time/tzdata"

	"github.com/rpggio/karte/internal/app"
	"github.com/rpggio/karte/internal/config"
	"github.com/rpggio/karte/internal/sqlite"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
	// closers run after the command finishes.
	closers []func()
)

var rootCmd = &cobra.Command{
	Use:   "karte",
	Short: "Case notebook for projects, notes, resources and ideas",
	Long: `karte keeps track of projects (案件) with their due dates, notes, linked
resources and moodboard ideas, and serves them over REST and MCP.

Examples:
  karte serve
  karte search A社 来週
  karte dashboard --today 2024-06-10
  karte mcp`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		cfg = loaded

		// Only serve writes logs to stdout; other commands keep it for output.
		logWriter := io.Writer(os.Stderr)
		if cmd.Name() == "serve" || !cmd.HasParent() {
			logWriter = os.Stdout
		}
		if cfg.Log.Path != "" {
			fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
			} else {
				closers = append(closers, func() { _ = file.Close() })
				logWriter = fileWriter
			}
		}
		logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.Log.Level),
		}))
		return nil
	},
	// Bare `karte` runs the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd, searchCmd, dashboardCmd)
}

func main() {
	err := rootCmd.Execute()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	if err != nil {
		os.Exit(1)
	}
}

// openStack opens the database and attachment backend and wires services.
func openStack(ctx context.Context) (*app.Stack, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	closers = append(closers, func() { _ = db.Close() })

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	backend, err := app.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open attachment storage: %w", err)
	}

	return app.New(db, backend, app.Options{
		Location:    cfg.Location(),
		HorizonDays: cfg.Dashboard.HorizonDays,
		AuthToken:   cfg.Auth.Token,
		Logger:      logger,
	}), nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a file and trims it to the newest
// keepLogSizeBytes once it grows past maxLogSizeBytes.
type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
	max  int64
	keep int64
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file, max: maxLogSizeBytes, keep: keepLogSizeBytes}
	if err := writer.truncateIfNeeded(); err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.max {
		return nil
	}

	buf := make([]byte, w.keep)
	if _, err := w.file.Seek(size-w.keep, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(w.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
