package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisplayName(t *testing.T) {
	names := map[string]string{
		"Tour de France": "环法自行车赛",
		"Blank Entry":    "  ",
	}

	tests := []struct {
		name      string
		bilingual bool
		english   string
		class     string
		want      string
	}{
		{"bilingual with translation", true, "Tour de France", "2.UWT", "环法自行车赛 Tour de France (2.UWT)"},
		{"bilingual without translation", true, "Strade Bianche", "1.UWT", "Strade Bianche (1.UWT)"},
		{"english mode ignores translation", false, "Tour de France", "2.UWT", "Tour de France (2.UWT)"},
		{"blank translation ignored", true, "Blank Entry", "1.Pro", "Blank Entry (1.Pro)"},
		{"whitespace trimmed", true, "  Tour de France ", " 2.UWT ", "环法自行车赛 Tour de France (2.UWT)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(names, tt.bilingual)
			if got := tr.DisplayName(tt.english, tt.class); got != tt.want {
				t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.english, tt.class, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tr, err := Load(strings.NewReader(`{"Giro d'Italia": "环意大利自行车赛"}`), true)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	if got, ok := tr.Lookup("Giro d'Italia"); !ok || got != "环意大利自行车赛" {
		t.Errorf("Lookup() = %q, %v", got, ok)
	}

	if _, err := Load(strings.NewReader(`["not", "an", "object"]`), true); err == nil {
		t.Error("Load() expected error for non-object JSON")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "race_names.json")
	if err := os.WriteFile(valid, []byte(`{"Paris-Roubaix": "巴黎-鲁贝"}`), 0600); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		bilingual bool
		wantLen   int
	}{
		{"valid file", valid, true, 1},
		{"missing file degrades", filepath.Join(dir, "missing.json"), true, 0},
		{"broken file degrades", broken, true, 0},
		{"english mode skips file", valid, false, 0},
		{"empty path", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := LoadFile(tt.path, tt.bilingual)
			if tr == nil {
				t.Fatal("LoadFile() returned nil")
			}
			if tr.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", tr.Len(), tt.wantLen)
			}
			if got := tr.DisplayName("Paris-Roubaix", "1.UWT"); tt.wantLen == 0 && got != "Paris-Roubaix (1.UWT)" {
				t.Errorf("degraded DisplayName = %q", got)
			}
		})
	}
}
