// Command ls-lunar shows which Lunar Club features can be observed tonight.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-lunar/internal/catalog"
	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/config"
	"github.com/litescript/ls-lunar/internal/logging"
	"github.com/litescript/ls-lunar/internal/moon"
	"github.com/litescript/ls-lunar/internal/observability"
	"github.com/litescript/ls-lunar/internal/refresh"
	"github.com/litescript/ls-lunar/internal/state"
	"github.com/litescript/ls-lunar/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	jsonPath      string
	eventsMode    bool
	atFlag        string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override the environment and config file
	flag.StringVar(&cfg.Latitude, "lat", cfg.Latitude, "Observer latitude as d:m:s, North positive")
	flag.StringVar(&cfg.Longitude, "lon", cfg.Longitude, "Observer longitude as d:m:s, East positive")
	flag.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "IANA timezone for rise/set times")
	flag.StringVar(&cfg.Club, "club", cfg.Club, "Observing club: Lunar or LunarII")
	flag.IntVar(&cfg.Limit, "limit", cfg.Limit, "Examine at most this many catalog rows (0 for all)")
	flag.DurationVar(&cfg.Refresh, "refresh", cfg.Refresh, "Refresh interval (e.g., 30s, 5m)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (e.g., :9090)")
	flag.StringVar(&atFlag, "at", "", "Observe at a fixed instant (RFC 3339, e.g. 2013-10-18T22:00:00Z)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 10m)")
	flag.StringVar(&jsonPath, "json", "", "Export JSON snapshot to file (use - for stdout)")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	// A fixed instant freezes the clock
	clock := clockwork.NewRealClock()
	if atFlag != "" {
		at, err := time.Parse(time.RFC3339, atFlag)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		if watchInterval > 0 {
			return errors.New("-watch cannot be combined with -at")
		}
		clock = clockwork.NewFakeClockAt(at.UTC())
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		metrics = observability.NewMetrics()
		srv := observability.NewServer(cfg.MetricsAddr, prometheus.DefaultGatherer, logger.With("metrics"))
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Initialize components
	src, err := catalog.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	container, err := catalog.NewContainer(src, cfg.Club,
		catalog.WithLogger(logger.With("catalog")),
		catalog.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	lat, lon, err := cfg.Site()
	if err != nil {
		return err
	}
	moonState, err := moon.New(lat, lon, codec.FromTime(clock.Now().UTC()), moon.WithLogger(logger.With("moon")))
	if err != nil {
		return err
	}

	refresher := refresh.New(moonState, src, container, cfg.Timezone,
		refresh.WithClock(clock),
		refresh.WithLogger(logger.With("refresh")),
		refresh.WithLimit(cfg.Limit),
	)

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.Refresh
	stateCfg.Clock = clock
	stateCfg.Metrics = metrics
	stateMgr := state.NewManager(stateCfg)

	// Headless mode: no TUI
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := summaryMode || jsonPath != "" || eventsMode || atFlag != "" || !isTTY
	if headless {
		if !summaryMode && jsonPath == "" && !eventsMode {
			summaryMode = true
		}
		return runHeadless(ctx, refresher, stateMgr, clock)
	}

	// Create TUI model
	model := ui.New(stateMgr, clock)

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Start refresh loop in background
	go refresher.Run(ctx, stateMgr, cfg.Refresh, ui.Notifier(p.Send, stateMgr))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, refresher *refresh.Refresher, stateMgr *state.Manager, clock clockwork.Clock) error {
	outputOnce := func() error {
		result := refresher.Refresh(ctx)
		stateMgr.Update(result.Data, result.Duration, result.Error)
		if result.Error != nil {
			return result.Error
		}
		snap := stateMgr.Snapshot()

		// Export JSON if requested
		if jsonPath != "" {
			if err := writeJSON(snap); err != nil {
				return err
			}
		}

		// Print summary table if requested
		if summaryMode {
			snap.Data.WriteSummary(os.Stdout)
		}

		// Events log
		if eventsMode {
			fmt.Println()
			writeEvents(os.Stdout, stateMgr.RecentEvents(10))
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		return outputOnce()
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := clock.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			fmt.Println() // Blank line between outputs
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeJSON(snap state.Snapshot) error {
	if jsonPath == "-" {
		if err := snap.Data.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := snap.Data.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// writeEvents prints events oldest first.
func writeEvents(w io.Writer, events []state.Event) {
	fmt.Fprintln(w, "Recent events")
	if len(events) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, e := range events {
		detail := e.Feature
		if e.Old != "" || e.New != "" {
			detail = e.Old + " -> " + e.New
		}
		fmt.Fprintf(w, "  %s  %-16s %s\n", e.Timestamp.UTC().Format("2006-01-02 15:04:05"), e.Type, detail)
	}
}
