package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pfrederiksen/cycling-races-ics/internal/logger"
)

// Translator produces calendar display names.
type Translator struct {
	names     map[string]string
	bilingual bool
}

// New creates a Translator from an English → localized name table.
func New(names map[string]string, bilingual bool) *Translator {
	if names == nil {
		names = map[string]string{}
	}
	return &Translator{names: names, bilingual: bilingual}
}

// Load reads a JSON object of translations from r.
func Load(r io.Reader, bilingual bool) (*Translator, error) {
	names := make(map[string]string)
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("decoding translations: %w", err)
	}
	return New(names, bilingual), nil
}

// LoadFile reads translations from path. A missing or unreadable file
// degrades to English-only names with a warning instead of failing.
func LoadFile(path string, bilingual bool) *Translator {
	if path == "" || !bilingual {
		return New(nil, bilingual)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("translation file not found, using English names only", logger.Fields{"path": path})
		} else {
			logger.Warn("cannot open translation file, using English names only", logger.Fields{"path": path}, err)
		}
		return New(nil, bilingual)
	}
	defer f.Close()

	t, err := Load(f, bilingual)
	if err != nil {
		logger.Error("invalid translation file, using English names only", logger.Fields{"path": path}, err)
		return New(nil, bilingual)
	}

	logger.Debug("loaded translations", logger.Fields{"path": path, "entries": t.Len()})
	return t
}

// Len returns the number of translation entries.
func (t *Translator) Len() int {
	return len(t.names)
}

// Lookup returns the localized name for an English race name.
func (t *Translator) Lookup(englishName string) (string, bool) {
	name, ok := t.names[strings.TrimSpace(englishName)]
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return strings.TrimSpace(name), true
}

// DisplayName formats "Localized English (CLASS)" in bilingual mode when a
// translation exists, and "English (CLASS)" otherwise.
func (t *Translator) DisplayName(englishName, classification string) string {
	base := strings.TrimSpace(englishName)
	class := strings.TrimSpace(classification)

	if t.bilingual {
		if local, ok := t.Lookup(base); ok {
			return fmt.Sprintf("%s %s (%s)", local, base, class)
		}
	}
	return fmt.Sprintf("%s (%s)", base, class)
}
