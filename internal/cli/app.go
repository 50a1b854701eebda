package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"oscalctl/internal/config"
	"oscalctl/internal/logx"
	"oscalctl/internal/paths"
	"oscalctl/internal/runner"
	"oscalctl/internal/sarif"
	"oscalctl/internal/tools"
	"oscalctl/internal/tui"
)

// Installer is the part of tools.Installer the commands use.
type Installer interface {
	ListVersions(ctx context.Context) (tools.Versions, error)
	Install(ctx context.Context, selector string) (tools.InstallResult, error)
	Detect(ctx context.Context) (tools.Status, error)
}

// ToolRunner is the part of runner.Runner the commands use.
type ToolRunner interface {
	Locate() (string, error)
	Run(ctx context.Context, command string, args ...string) (runner.Result, error)
}

// App carries everything a command needs. It is built once per process.
type App struct {
	Config    config.Config
	Layout    paths.Layout
	Logger    zerolog.Logger
	Installer Installer

	// Tool forwards invocations with output streamed to the terminal.
	Tool      ToolRunner
	// Validator runs validate with output captured for the log reader;
	// built from the flags when nil.
	Validator ToolRunner

	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	// Console carries log lines and spinners on Stderr; built over Stderr
	// when nil.
	Console *tui.Console

	JSON       bool
	NoProgress bool

	// PickVersion prompts for a version; tui.PickVersion when nil.
	PickVersion func(versions []string, latest, installed string) (string, error)
	// Interactive reports whether prompting is possible; terminal detection
	// on Stdin and Stdout when nil.
	Interactive func() bool

	closer io.Closer
}

// NewApp loads configuration and wires the installer, runners and logger.
func NewApp() (*App, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}

	var layout paths.Layout
	if cfg.Prefix == "" {
		layout, err = paths.ResolveDefault()
	} else {
		layout, err = paths.Resolve(cfg.Prefix)
	}
	if err != nil {
		return nil, err
	}

	logsDir, err := paths.LogsDir()
	if err != nil {
		return nil, err
	}
	console := tui.NewConsole(os.Stderr)
	logger, closer, err := logx.New(logsDir, cfg.LogLevel, console, tui.IsTerminal(os.Stderr))
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		closer.Close()
		return nil, err
	}

	tool := runner.New(tools.ToolName)
	tool.Stdout = os.Stdout
	tool.Stderr = os.Stderr

	return &App{
		Config:     cfg,
		Layout:     layout,
		Logger:     logger,
		Installer:  tools.NewInstaller(layout, cfg.MetadataURL, cfg.DownloadBaseURL, timeout, logger),
		Tool:       tool,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Console:    console,
		NoProgress: !cfg.ProgressEnabled(),
		closer:     closer,
	}, nil
}

// validator returns the validate runner. The default captures output quietly
// and shows a spinner on stderr when progress is enabled.
func (a *App) validator() ToolRunner {
	if a.Validator != nil {
		return a.Validator
	}
	r := runner.New(tools.ToolName)
	if a.progressEnabled() {
		r.Progress = tui.NewStatusWriter(a.console())
	}
	return r
}

// Close flushes and closes the log file.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) console() *tui.Console {
	if a.Console == nil {
		a.Console = tui.NewConsole(a.Stderr)
	}
	return a.Console
}

func (a *App) mode() tui.OutputMode {
	return tui.DetectMode(a.Stderr, a.NoProgress, a.JSON)
}

func (a *App) progressEnabled() bool {
	return !a.NoProgress && tui.DetectMode(a.Stderr, false, false) == tui.ModeTUI
}

func (a *App) interactive() bool {
	if a.Interactive != nil {
		return a.Interactive()
	}
	return tui.IsTerminal(a.Stdin) && tui.IsTerminal(a.Stdout)
}

func (a *App) pickVersion(versions []string, latest, installed string) (string, error) {
	if a.PickVersion != nil {
		return a.PickVersion(versions, latest, installed)
	}
	return tui.PickVersion(a.Stdin, a.Stdout, versions, latest, installed)
}

// reader returns a result-log reader over the validate runner.
func (a *App) reader() *sarif.Reader {
	return sarif.NewReader(a.validator(), a.Logger)
}

// withStatus shows msg next to a spinner while fn runs, when progress is on.
func (a *App) withStatus(msg string, fn func() error) error {
	if a.mode() != tui.ModeTUI {
		return fn()
	}
	sw := tui.NewStatusWriter(a.console())
	sw.Update(msg)
	sw.Start()
	defer sw.Stop()
	return fn()
}

// ensureInstalled makes sure oscal-cli resolves on the search path, installing
// the latest release when it does not.
func (a *App) ensureInstalled(ctx context.Context) error {
	_, err := a.Tool.Locate()
	if err == nil {
		return nil
	}
	if !errors.Is(err, runner.ErrNotFound) {
		return err
	}

	a.Logger.Info().Msg("oscal-cli not found; installing the latest release")
	var res tools.InstallResult
	err = a.withStatus("installing oscal-cli", func() error {
		var err error
		res, err = a.Installer.Install(ctx, "latest")
		return err
	})
	if err != nil {
		return err
	}
	a.Logger.Info().Str("version", res.Version).Str("alias", res.Alias).Msg("installed oscal-cli")

	if _, err := a.Tool.Locate(); err != nil {
		return fmt.Errorf("oscal-cli installed at %s but %s is not on PATH: %w", res.Alias, a.Layout.BinDir, err)
	}
	return nil
}
