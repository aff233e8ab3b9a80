package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bjpl/algolearn/internal/cache"
	"github.com/bjpl/algolearn/internal/config"
	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/database"
	"github.com/bjpl/algolearn/internal/logging"
	"github.com/bjpl/algolearn/internal/metrics"
	"github.com/bjpl/algolearn/internal/notes"
	"github.com/bjpl/algolearn/internal/progress"
)

const version = "1.0.0"

// App encapsulates CLI state and dependencies for testability. Fields left
// nil are constructed from config on first use.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	ctx    context.Context

	configPath     string // --config
	curriculumPath string // --curriculum
	width          int    // table width override, 0 detects

	cfg      *config.Config
	log      *logging.Logger
	repo     curriculum.Repository
	loadInfo curriculum.LoadInfo
	metrics  *metrics.Metrics
	cache    cache.Cache
	db       *gorm.DB
	notes    *notes.Store
	progress *progress.Store
}

// NewApp creates a new App with default stdout/stderr/stdin
func NewApp() *App {
	return &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		ctx:    context.Background(),
	}
}

// Run executes the command line in args (program name first) and returns the exit code
func (a *App) Run(args []string) int {
	if a.ctx == nil {
		a.ctx = context.Background()
	}
	if len(args) > 0 {
		args = args[1:]
	}

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(a.ctx)
	if cerr := a.close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "algolearn",
		Short: "Algorithms & data structures learning platform",
		Long: `algolearn browses algorithm curricula, searches lessons and notes,
and tracks your progress through each course.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "Config file path")
	root.PersistentFlags().StringVar(&a.curriculumPath, "curriculum", "", "Curriculum JSON file (overrides config)")

	root.AddCommand(a.newCurriculumCommand())
	root.AddCommand(a.newSearchCommand())
	root.AddCommand(a.newNotesCommand())
	root.AddCommand(a.newProgressCommand())
	root.AddCommand(a.newCacheCommand())
	root.AddCommand(a.newConfigCommand())
	return root
}

// init loads config, logging, metrics and the curriculum unless already set
func (a *App) init() error {
	if a.cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.log == nil {
		a.log = logging.New(a.cfg.StateDir, a.cfg.DebugLevel)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	if a.repo == nil {
		m, info := curriculum.Load(a.log, a.curriculumCandidates()...)
		a.repo = m
		a.loadInfo = info
		a.metrics.RecordCurriculumLoad(string(info.Source))
	}
	return nil
}

// curriculumCandidates lists files to try, most specific first
func (a *App) curriculumCandidates() []string {
	if a.curriculumPath != "" {
		return []string{a.curriculumPath}
	}
	candidates := []string{}
	if a.cfg.CurriculumPath != "" {
		candidates = append(candidates, a.cfg.CurriculumPath)
	}
	return append(candidates,
		filepath.Join("data", "curriculum.json"),
		filepath.Join(a.cfg.StateDir, "curriculum.json"),
	)
}

// openStores connects the database behind notes and progress on first use
func (a *App) openStores() error {
	if a.notes != nil && a.progress != nil {
		return nil
	}
	if a.db == nil {
		db, err := database.Open(a.cfg.Database, a.log)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return err
		}
		a.db = db
	}
	if a.notes == nil {
		a.notes = notes.NewStore(a.db, a.log)
	}
	if a.progress == nil {
		a.progress = progress.NewStore(a.db, a.log)
	}
	return nil
}

// searchCache opens the configured cache backend on first use
func (a *App) searchCache() cache.Cache {
	if a.cache != nil {
		return a.cache
	}
	c, err := cache.New(cache.Config{
		Backend:  a.cfg.Cache.Backend,
		TTL:      a.cfg.Cache.TTL,
		RedisURL: a.cfg.Cache.RedisURL,
	})
	if err != nil {
		a.log.Warn("cache_unavailable", "backend", a.cfg.Cache.Backend, "error", err.Error())
		c = cache.Nop{}
	}
	a.cache = c
	return c
}

// close flushes metrics and releases connections
func (a *App) close() error {
	var errs []error
	if a.metrics != nil && a.cfg != nil {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
		a.cache = nil
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, err)
		}
		a.db = nil
		a.notes = nil
		a.progress = nil
	}
	if a.log != nil {
		a.log.Close()
		a.log = nil
	}
	return errors.Join(errs...)
}

// user returns the configured owner of notes and progress
func (a *App) user() string {
	return a.cfg.User
}
