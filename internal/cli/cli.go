package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
	"github.com/pfrederiksen/cycling-races-ics/internal/config"
	"github.com/pfrederiksen/cycling-races-ics/internal/filter"
	"github.com/pfrederiksen/cycling-races-ics/internal/i18n"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
	"github.com/pfrederiksen/cycling-races-ics/internal/scraper"
	"github.com/pfrederiksen/cycling-races-ics/internal/storage"
	"github.com/pfrederiksen/cycling-races-ics/internal/synth"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagLang         string
	flagYear         int
	flagOutputDir    string
	flagTranslations string
	flagDelay        time.Duration
	flagTimeout      time.Duration
	flagNoStages     bool
	flagFormat       string
	flagSort         string
	flagClasses      []string
	flagRaces        []string
	flagExclude      []string
	flagWindow       string
	flagStageRaces   bool
	flagVerbose      bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycling-races-ics",
		Short: "Generate an ICS calendar of UCI WorldTour races",
		Long: `A CLI tool that reads the season's UCI WorldTour race list and writes
an all-day ICS calendar. Multi-day races get one event per day, titled from
the race's published stage list when available.`,
		SilenceUsage: true,
		RunE:         runGenerate,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagLang, "lang", config.LangBilingual, "Display language: en or bilingual")
	cmd.Flags().IntVar(&flagYear, "year", 0, "Season to fetch (default: current year)")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", ".", "Directory for the generated calendar")
	cmd.Flags().StringVar(&flagTranslations, "translations", "race_names.json", "Race name translation file (JSON)")
	cmd.Flags().DurationVar(&flagDelay, "delay", time.Second, "Pause after each stage-detail request")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "HTTP request timeout")
	cmd.Flags().BoolVar(&flagNoStages, "no-stages", false, "Skip stage-detail pages and number days instead")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort the printed race list: date or name (default: list order)")
	cmd.Flags().StringSliceVar(&flagClasses, "class", nil, "Only include these classifications (e.g. 2.UWT)")
	cmd.Flags().StringSliceVar(&flagRaces, "race", nil, "Only include races whose name contains one of these")
	cmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "Exclude races whose name contains one of these")
	cmd.Flags().StringVar(&flagWindow, "window", "", "Only include races overlapping a date window (e.g. 'Mar - May')")
	cmd.Flags().BoolVar(&flagStageRaces, "stage-races", false, "Only include multi-day races")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runGenerate is the main command logic
func runGenerate(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if order != "" && order != SortByDate && order != SortByName {
		return fmt.Errorf("invalid sort order: %s (must be 'date' or 'name')", flagSort)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)
	defer log.Sync()

	result, err := generate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if order != "" {
		result.Races = sortedCopy(result.Races, order)
	}
	if flagVerbose {
		result.Metrics = logger.GetMetricsSnapshot()
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// loadConfig reads the config file and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Lang = flagLang
	}
	if flags.Changed("year") {
		cfg.Year = flagYear
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("translations") {
		cfg.Translations = flagTranslations
	}
	if flags.Changed("delay") {
		cfg.RequestDelay = flagDelay
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = flagTimeout
	}
	if flagNoStages {
		disabled := false
		cfg.FetchStages = &disabled
	}
	if flags.Changed("class") {
		cfg.Filter.Classes = flagClasses
	}
	if flags.Changed("race") {
		cfg.Filter.Races = flagRaces
	}
	if flags.Changed("exclude") {
		cfg.Filter.Exclude = flagExclude
	}
	if flags.Changed("window") {
		cfg.Filter.Window = flagWindow
	}
	if flagStageRaces {
		cfg.Filter.StageRacesOnly = true
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generate runs one full calendar generation for cfg.
func generate(ctx context.Context, cfg *config.Config) (*OutputResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	raceFilter, err := buildFilter(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	translator := i18n.LoadFile(cfg.Translations, cfg.Bilingual())

	fetcher := scraper.NewFetcher(
		scraper.WithTimeout(cfg.RequestTimeout),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithRetries(cfg.Retries),
	)

	listURL := cfg.ListPageURL()
	logger.Info("fetching race list", logger.Fields{"url": listURL, "year": cfg.Year})

	rows, err := scraper.NewListScraper(fetcher, listURL).FetchRaces(ctx)
	if err != nil {
		// An unreachable list page still produces a valid, empty calendar.
		logger.Error("fetching race list failed, continuing with no races", logger.Fields{"url": listURL}, err)
		rows = nil
	}

	races, skipped := summarize(rows, cfg.Year, translator)
	logger.Info("parsed race list", logger.Fields{"races": len(races), "skipped": skipped})

	if !raceFilter.IsEmpty() {
		before := len(races)
		races = raceFilter.Apply(races)
		logger.DefaultMetrics().AddCounter("races.filtered", int64(before-len(races)))
		logger.Info("applied race filter", logger.Fields{
			"filter": raceFilter.String(),
			"kept":   len(races),
		})
	}

	var source synth.StageSource
	if cfg.StagesEnabled() {
		normalizer := race.NewNormalizer(cfg.Aliases)
		source = scraper.NewStageExtractor(fetcher, cfg.DetailURL, normalizer)
	}
	synthesizer := synth.New(source,
		synth.WithDelay(cfg.RequestDelay),
		synth.WithUnavailableError(scraper.ErrStagesUnavailable),
	)

	run := synth.NewRun(time.Now())
	events := synthesizer.Process(ctx, run, races)

	opts := calendar.Options{Name: cfg.CalendarName}
	path, err := store.WriteCalendar(cfg.OutputFilename(), func(w io.Writer) error {
		return calendar.Encode(w, events, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("saving calendar: %w", err)
	}
	logger.SetGauge("events.total", float64(len(events)))
	logger.Info("wrote calendar", logger.Fields{"path": path, "events": len(events)})

	return &OutputResult{
		GeneratedAt: run.Timestamp,
		Year:        cfg.Year,
		Lang:        cfg.Lang,
		OutputPath:  path,
		Races:       races,
		RaceCount:   len(races),
		EventCount:  len(events),
		Skipped:     skipped,
		Stats:       run.Stats,
	}, nil
}

// buildFilter converts the configured filter criteria into a race filter.
func buildFilter(cfg *config.Config) (*filter.Filter, error) {
	fc := cfg.Filter
	f := filter.NewFilter()
	f.Classes = append(f.Classes, fc.Classes...)
	f.Names = append(f.Names, fc.Races...)
	f.Exclude = append(f.Exclude, fc.Exclude...)
	f.StageRacesOnly = fc.StageRacesOnly

	if strings.TrimSpace(fc.Window) != "" {
		from, to, err := filter.ParseWindow(fc.Window, cfg.Year)
		if err != nil {
			return nil, fmt.Errorf("parsing filter window: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}

// summarize converts list rows into races, logging and skipping rows that
// cannot be parsed.
func summarize(rows []race.ListRow, year int, namer race.DisplayNamer) ([]*race.Summary, int) {
	races := make([]*race.Summary, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		s, err := race.NewSummary(row, year, namer)
		if err != nil {
			skipped++
			logger.IncrCounter("races.skipped")
			logger.Warn("skipping race row", logger.Fields{
				"date": row.DateRange,
				"name": row.Name,
			}, err)
			continue
		}
		logger.IncrCounter("races.parsed")
		races = append(races, s)
	}
	return races, skipped
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
