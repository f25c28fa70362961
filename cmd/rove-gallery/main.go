// Command rove-gallery is an interactive tour of the rove navigation
// engine: a roving-tabindex list, an active-descendant combo box, and a
// multiline editor, all live in one screen. Edit .rove/config.yaml while
// it runs to watch the controllers re-attach with new settings.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	tcellbackend "github.com/odvcencio/rove/pkg/backend/tcell"
	"github.com/odvcencio/rove/pkg/config"
	"github.com/odvcencio/rove/pkg/telemetry"
	"github.com/odvcencio/rove/pkg/terminal"
)

// Version information - set via ldflags during build
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

var termOut = terminal.New()

func main() {
	var (
		configPath  string
		themeFlag   string
		noColor     bool
		logPath     string
		cpuProfile  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "load configuration from this file instead of the standard locations")
	flag.StringVar(&themeFlag, "theme", "", "override the configured theme (auto, dark, light, mono)")
	flag.BoolVar(&noColor, "no-color", false, "disable colors regardless of terminal support")
	flag.StringVar(&logPath, "log", "", "append structured logs to this file")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("rove-gallery %s (%s)\n", version, commit)
		return
	}

	if val, ok := parseBoolEnv("NO_COLOR"); ok && val {
		noColor = true
	}

	if !isInteractiveTerminal() {
		termOut.Error("rove-gallery needs an interactive terminal")
		os.Exit(1)
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		termOut.Error("loading config: %v", err)
		os.Exit(2)
	}
	if themeFlag != "" {
		cfg.Theme.Name = themeFlag
		if err := cfg.Validate(); err != nil {
			termOut.Error("%v", err)
			os.Exit(2)
		}
	}
	for _, warning := range cfg.ValidationWarnings() {
		termOut.Warn("%s", warning)
	}

	logger, closeLog, err := openLogger(logPath)
	if err != nil {
		termOut.Error("opening log file: %v", err)
		os.Exit(1)
	}
	defer closeLog()
	if logPath != "" {
		termOut.Dim("logging to %s", logPath)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			termOut.Error("creating profile file: %v", err)
			os.Exit(1)
		}
		if err := telemetry.StartCPUProfile(f); err != nil {
			termOut.Error("starting CPU profile: %v", err)
			os.Exit(1)
		}
		defer func() {
			telemetry.StopCPUProfile()
			f.Close()
		}()
		termOut.Dim("writing CPU profile to %s", cpuProfile)
	}

	b, err := tcellbackend.New()
	if err != nil {
		termOut.Error("creating terminal backend: %v", err)
		os.Exit(1)
	}

	app := newApp(b, cfg, configPath, noColor, logger)

	// Forward termination signals into the event loop so the terminal
	// is restored before exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		_ = b.PostEvent(terminal.WakeEvent{Tag: wakeShutdown})
	}()

	runErr := app.run()
	app.close()
	if runErr != nil {
		termOut.Error("%v", runErr)
		os.Exit(1)
	}

	if app.cfg.Telemetry.Enabled {
		if err := dumpMetrics(app.metrics, config.ResolveSnapshotPath(app.cfg)); err != nil {
			termOut.Error("writing metrics snapshot: %v", err)
			os.Exit(1)
		}
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "rove-gallery demonstrates roving-tabindex and active-descendant keyboard navigation.\n\n")
	fmt.Fprintf(out, "Usage: rove-gallery [flags]\n\nFlags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nKeys:\n")
	fmt.Fprintf(out, "  Tab / Shift+Tab   move between panes\n")
	fmt.Fprintf(out, "  Arrows, Home/End  move within a pane\n")
	fmt.Fprintf(out, "  Enter             select the focused option\n")
	fmt.Fprintf(out, "  Ctrl+C            quit\n")
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

func parseBoolEnv(key string) (bool, bool) {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if val == "" {
		return false, false
	}
	switch val {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}

// dumpMetrics writes the exit snapshot to path, or to stderr when no
// path is configured.
func dumpMetrics(reg *telemetry.Registry, path string) error {
	if path == "" {
		termOut.Newline()
		termOut.Header("METRICS")
		_, err := reg.WriteTo(os.Stderr)
		return err
	}
	data, err := reg.ExportJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	termOut.Success("metrics snapshot written to %s", path)
	return nil
}
