// Package wire provides dependency injection for the lorebook application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	cliadapter "github.com/example/lorebook/internal/adapters/cli"
	"github.com/example/lorebook/internal/adapters/httpapi"
	"github.com/example/lorebook/internal/adapters/sqlite"
	"github.com/example/lorebook/internal/app"
	"github.com/example/lorebook/internal/config"
	"github.com/example/lorebook/internal/db"
	"github.com/example/lorebook/internal/logging"
	"github.com/example/lorebook/internal/ports/primary"
)

var (
	cfg            *config.Config
	logger         *slog.Logger
	database       *sql.DB
	journalService primary.JournalService
	initErr        error
	once           sync.Once
)

// Configure sets the configuration and logger used by the lazily built
// services. It must run before the first service accessor; later calls have
// no effect on services already built.
func Configure(c *config.Config, l *slog.Logger) {
	cfg = c
	logger = l
}

// Config returns the active configuration, loading it from the environment
// if Configure was never called.
func Config() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// JournalService returns the singleton JournalService instance.
func JournalService() (primary.JournalService, error) {
	once.Do(initServices)
	return journalService, initErr
}

// DB returns the singleton database handle.
func DB() (*sql.DB, error) {
	once.Do(initServices)
	return database, initErr
}

// Close releases the database, if it was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, err := Config()
	if err != nil {
		initErr = err
		return
	}

	database, err = db.Open(c.DBPath)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}
	journalService = Build(database, c.OpTimeout, Logger())
}

// Build assembles a JournalService over an open, initialized database.
func Build(database *sql.DB, timeout time.Duration, logger *slog.Logger) primary.JournalService {
	if logger == nil {
		logger = logging.Discard()
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB.
	// The log writer resolves chapter campaigns through an unaudited act repository.
	logRepo := sqlite.NewJournalLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(logRepo, sqlite.NewActRepository(database, nil), logger)
	actRepo := sqlite.NewActRepository(database, logWriter)
	chapterRepo := sqlite.NewChapterRepository(database, logWriter)
	noteRepo := sqlite.NewMasterNoteRepository(database, logWriter)

	// Create effect executor with injected repositories
	executor := app.NewEffectExecutor(actRepo, chapterRepo, logger)

	chapters := app.NewChapterStore(chapterRepo, actRepo, executor, nil)
	acts := app.NewActStore(actRepo, chapters, executor, nil)
	notes := app.NewMasterNoteStore(noteRepo, nil)

	return app.NewJournalService(acts, chapters, notes, logRepo, sqlite.NewTransactor(database), logger, timeout)
}

// JournalAdapter returns a new JournalAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func JournalAdapter() (*cliadapter.JournalAdapter, error) {
	return JournalAdapterWithOutput(os.Stdout)
}

// JournalAdapterWithOutput returns a new JournalAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func JournalAdapterWithOutput(out io.Writer) (*cliadapter.JournalAdapter, error) {
	svc, err := JournalService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewJournalAdapter(svc, out), nil
}

// HTTPHandler returns the gin engine serving the journal API.
func HTTPHandler() (*gin.Engine, error) {
	svc, err := JournalService()
	if err != nil {
		return nil, err
	}
	return httpapi.NewRouter(svc, Logger()), nil
}
