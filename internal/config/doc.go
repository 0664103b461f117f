// Package config loads the YAML configuration of the calendar generator.
//
// A missing file yields DefaultConfig. Loaded values are normalized (zero
// fields receive defaults) and validated before use.
package config
