// Package i18n formats race display names, optionally prefixed with a
// translated name read from a JSON translation file.
package i18n
