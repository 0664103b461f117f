package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Language modes.
const (
	LangEnglish   = "en"
	LangBilingual = "bilingual"
)

const (
	DefaultListURL   = "https://www.procyclingstats.com/races.php?year={year}&circuit=1&class=&filter=Filter&p=uci&s=year-calendar"
	DefaultDetailURL = "https://www.procyclingstats.com/race/{slug}/{year}/route/stages"
	DefaultUserAgent = "cycling-races-ics/1.0 (github.com/pfrederiksen/cycling-races-ics)"
)

// Config is the top-level configuration.
type Config struct {
	// Year is the season to fetch. Zero means the current year.
	Year int `yaml:"year" json:"year" validate:"gte=1900,lte=2200"`

	// Lang selects the display-name format and the output file name.
	Lang string `yaml:"lang" json:"lang" validate:"oneof=en bilingual"`

	// ListURL and DetailURL are templates; {year} and {slug} are replaced.
	ListURL   string `yaml:"list_url" json:"list_url" validate:"required,url"`
	DetailURL string `yaml:"detail_url" json:"detail_url" validate:"required,contains={slug}"`

	// Translations is the path of the race-name translation file.
	Translations string `yaml:"translations" json:"translations"`

	// OutputDir receives the generated calendar.
	OutputDir string `yaml:"output_dir" json:"output_dir" validate:"required"`

	// CalendarName is written as X-WR-CALNAME.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	UserAgent      string        `yaml:"user_agent" json:"user_agent" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" validate:"gt=0"`
	Retries        int           `yaml:"retries" json:"retries" validate:"gte=0,lte=10"`

	// RequestDelay is the pause after each multi-day race's detail fetch.
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay" validate:"gte=0"`

	// FetchStages disables detail-page extraction when false; every
	// multi-day race then uses day-by-day expansion.
	FetchStages *bool `yaml:"fetch_stages,omitempty" json:"fetch_stages,omitempty"`

	// Aliases extend the built-in slug alias table.
	Aliases map[string]string `yaml:"aliases" json:"aliases"`

	// Filter narrows the races written to the calendar.
	Filter FilterConfig `yaml:"filter" json:"filter"`
}

// FilterConfig selects races by classification, name and date window.
type FilterConfig struct {
	Classes        []string `yaml:"classes" json:"classes,omitempty"`
	Races          []string `yaml:"races" json:"races,omitempty"`
	Exclude        []string `yaml:"exclude" json:"exclude,omitempty"`
	Window         string   `yaml:"window" json:"window,omitempty"`
	StageRacesOnly bool     `yaml:"stage_races_only" json:"stage_races_only,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	fetch := true
	return &Config{
		Year:           time.Now().Year(),
		Lang:           LangBilingual,
		ListURL:        DefaultListURL,
		DetailURL:      DefaultDetailURL,
		Translations:   "race_names.json",
		OutputDir:      ".",
		CalendarName:   "UCI WorldTour",
		UserAgent:      DefaultUserAgent,
		RequestTimeout: 10 * time.Second,
		RequestDelay:   time.Second,
		Retries:        2,
		FetchStages:    &fetch,
		Aliases:        map[string]string{},
	}
}

// Load reads the YAML file at path. A missing file is not an error and
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills zero values with defaults so partial files still work.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Year == 0 {
		c.Year = def.Year
	}
	c.Lang = strings.ToLower(strings.TrimSpace(c.Lang))
	if c.Lang == "" {
		c.Lang = def.Lang
	}
	if c.ListURL == "" {
		c.ListURL = def.ListURL
	}
	if c.DetailURL == "" {
		c.DetailURL = def.DetailURL
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.FetchStages == nil {
		c.FetchStages = def.FetchStages
	}
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Bilingual reports whether display names include translations.
func (c *Config) Bilingual() bool {
	return c.Lang == LangBilingual
}

// StagesEnabled reports whether detail pages should be fetched.
func (c *Config) StagesEnabled() bool {
	return c.FetchStages == nil || *c.FetchStages
}

// OutputFilename returns the calendar file name for the language mode.
func (c *Config) OutputFilename() string {
	if c.Bilingual() {
		return "cycling_races_bilingual.ics"
	}
	return "cycling_races_en.ics"
}

// ListPageURL returns the list URL for the configured year.
func (c *Config) ListPageURL() string {
	return strings.ReplaceAll(c.ListURL, "{year}", strconv.Itoa(c.Year))
}
