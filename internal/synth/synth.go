package synth

import (
	"context"
	"errors"
	"time"

	"github.com/pfrederiksen/cycling-races-ics/internal/calendar"
	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
	"github.com/pfrederiksen/cycling-races-ics/internal/race"
)

// StageSource provides stage records for a multi-day race. Returning an
// error or no records selects day-by-day expansion for that race.
type StageSource interface {
	Stages(ctx context.Context, englishName string, year int) ([]race.StageRecord, error)
}

// Synthesizer generates calendar events race by race.
type Synthesizer struct {
	source StageSource
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration)

	// unavailable is matched with errors.Is to log expected misses quietly.
	unavailable error
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithDelay sets the pause after each multi-day race's stage lookup.
func WithDelay(d time.Duration) Option {
	return func(s *Synthesizer) {
		s.delay = d
	}
}

// WithSleep replaces the pacing sleep, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(s *Synthesizer) {
		s.sleep = fn
	}
}

// WithUnavailableError marks errors that represent an expected "no stage
// data" outcome rather than a failure.
func WithUnavailableError(err error) Option {
	return func(s *Synthesizer) {
		s.unavailable = err
	}
}

// New creates a Synthesizer. A nil source disables stage lookups.
func New(source StageSource, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		source: source,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process synthesizes events for races in order and appends them to run.
func (s *Synthesizer) Process(ctx context.Context, run *Run, races []*race.Summary) []*calendar.Event {
	for _, r := range races {
		s.Synthesize(ctx, run, r)
	}
	return run.Events
}

// Synthesize generates the events of one race, appends them to run and
// returns them.
func (s *Synthesizer) Synthesize(ctx context.Context, run *Run, r *race.Summary) []*calendar.Event {
	run.Stats.Races++

	if r.IsSingleDay() {
		run.Stats.SingleDay++
		evt := run.newEvent(r.DisplayName, r.StartDate, "", r.Location)
		run.Events = append(run.Events, evt)
		logger.IncrCounter("events.single_day")
		return []*calendar.Event{evt}
	}

	strategy := s.strategyFor(ctx, r)
	events := strategy.Generate(run, r)

	switch strategy.(type) {
	case Detailed:
		run.Stats.Detailed++
	default:
		run.Stats.Fallback++
	}
	logger.DefaultMetrics().AddCounter("events."+strategy.Name(), int64(len(events)))
	logger.Debug("synthesized race", logger.Fields{
		"race":     r.EnglishName,
		"strategy": strategy.Name(),
		"events":   len(events),
	})

	run.Events = append(run.Events, events...)
	return events
}

// strategyFor looks up stage records and picks the expansion strategy.
func (s *Synthesizer) strategyFor(ctx context.Context, r *race.Summary) Strategy {
	if s.source == nil {
		return Fallback{}
	}
	defer s.pace(ctx)

	stages, err := s.source.Stages(ctx, r.EnglishName, r.StartDate.Year())
	if err != nil {
		fields := logger.Fields{"race": r.EnglishName}
		if s.unavailable != nil && errors.Is(err, s.unavailable) {
			logger.Info("stage details unavailable, numbering days", fields)
		} else {
			logger.Warn("stage lookup failed, numbering days", fields, err)
		}
		return Fallback{}
	}
	if len(stages) == 0 {
		logger.Info("no stage rows found, numbering days", logger.Fields{"race": r.EnglishName})
		return Fallback{}
	}
	return Detailed{Stages: stages}
}

func (s *Synthesizer) pace(ctx context.Context) {
	if s.delay > 0 {
		s.sleep(ctx, s.delay)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
