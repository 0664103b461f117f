// Package synth turns race summaries into day-granular calendar events.
//
// Single-day races become one event. Multi-day races ask a StageSource for
// per-day stage records and expand them with the Detailed strategy; when no
// records are available the Fallback strategy numbers every day of the race
// instead. Both strategies cover each day of the race exactly once.
package synth
