package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelbrown/flicksearch/internal/config"
	"github.com/abelbrown/flicksearch/internal/location"
	"github.com/abelbrown/flicksearch/internal/logging"
	"github.com/abelbrown/flicksearch/internal/otel"
	"github.com/abelbrown/flicksearch/internal/search"
	"github.com/abelbrown/flicksearch/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const version = "0.1.0"

// rootFlags are shared by every subcommand. Only flags the user set
// override the loaded configuration.
type rootFlags struct {
	configPath string
	apiURL     string
	logLevel   string
	timeout    time.Duration

	rawURL   string
	query    string
	debounce time.Duration
	events   bool
	trace    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:     "flicksearch",
		Short:   "Search-as-you-type movie search in the terminal",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runTUI(cmd, cfg, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (.json or .toml, default ~/.flicksearch/config.json)")
	pf.StringVar(&f.apiURL, "api-url", "", "search API base URL")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (0 = none)")

	fl := root.Flags()
	fl.StringVar(&f.rawURL, "url", "", "session URL to resume, e.g. 'http://localhost:5173/?q=batman'")
	fl.StringVar(&f.query, "query", "", "initial query (overrides q in --url)")
	fl.DurationVar(&f.debounce, "debounce", 0, "quiet period before a query is sent")
	fl.BoolVar(&f.events, "events", false, "write diagnostics events to ~/.flicksearch/events.jsonl")
	fl.BoolVar(&f.trace, "trace", false, "record every UI message as a trace event")

	root.AddCommand(newSearchCommand(f), newServeFixtureCommand(), newConfigCommand(f))
	return root
}

// loadConfig layers flags over config.Load and validates the result.
func loadConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if flags.Lookup("debounce") != nil && flags.Changed("debounce") {
		cfg.Debounce = f.debounce
	}
	if flags.Lookup("events") != nil && flags.Changed("events") {
		cfg.Events = f.events
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *search.Client {
	client := search.NewClient(cfg.APIURL, 0)
	if cfg.RateLimit > 0 {
		client.SetRateLimit(rate.Limit(cfg.RateLimit), 1)
	}
	return client
}

func runTUI(cmd *cobra.Command, cfg *config.Config, f *rootFlags) error {
	if err := logging.Init(cfg.DataDir, cfg.LogLevel); err != nil {
		return err
	}
	defer logging.Close()
	log := logging.WithPrefix("main")

	loc, err := location.Parse(f.rawURL)
	if err != nil {
		return err
	}
	if f.query != "" {
		loc.Replace(f.query)
	}

	var events *otel.Logger
	if cfg.Events {
		events, err = otel.Open(cfg.EventsPath())
		if err != nil {
			return err
		}
	} else {
		events = otel.NewNullLogger()
	}
	defer events.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	if f.trace {
		otel.SetTraceEnabled(true)
	}

	log.Info("flicksearch started", "version", version, "api", cfg.APIURL, "url", loc.String())
	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main", Msg: version, Query: loc.Query()})

	app := ui.NewApp(ui.Options{
		Searcher:       newClient(cfg),
		Location:       loc,
		Debounce:       cfg.Debounce,
		RequestTimeout: cfg.RequestTimeout,
		Events:         events,
		Ring:           ring,
	})

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	app.SetSender(p.Send)

	_, err = p.Run()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main", Query: loc.Query()})
	log.Info("flicksearch shutting down", "url", loc.String())

	// The final URL resumes this session with --url.
	fmt.Fprintln(cmd.OutOrStdout(), loc.String())

	if err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}
