package methodology

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSettingsTemplate(t *testing.T) {
	t.Run("preset renders valid yaml", func(t *testing.T) {
		c := New()
		out, err := c.SettingsTemplate("lyt-ace")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("rendered template is not valid YAML: %v\n%s", err, out)
		}

		if doc["methodology"] != "lyt-ace" {
			t.Errorf("expected methodology 'lyt-ace', got %v", doc["methodology"])
		}
		if doc["version"] != "1.0" {
			t.Errorf("expected version '1.0', got %v", doc["version"])
		}

		noteTypes, ok := doc["note_types"].(map[string]any)
		if !ok {
			t.Fatalf("expected note_types mapping, got %T", doc["note_types"])
		}
		if _, ok := noteTypes["map"]; !ok {
			t.Error("expected 'map' note type in template")
		}

		autoFix, ok := doc["auto_fix"].(map[string]any)
		if !ok {
			t.Fatalf("expected auto_fix mapping, got %T", doc["auto_fix"])
		}
		if v, _ := autoFix["folder_renames"].(bool); v {
			t.Error("expected folder_renames to default to false")
		}
		if v, _ := autoFix["empty_types"].(bool); !v {
			t.Error("expected empty_types to default to true")
		}

		upLinks, ok := doc["up_links"].(map[string]any)
		if !ok {
			t.Fatalf("expected up_links mapping, got %T", doc["up_links"])
		}
		if upLinks["Atlas/Maps/"] != "[[Home]]" {
			t.Errorf("expected Atlas/Maps/ up link, got %v", upLinks["Atlas/Maps/"])
		}
	})

	t.Run("empty sections render as empty maps", func(t *testing.T) {
		c := New()
		out, err := c.SettingsTemplate("minimal")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(out, "folder_structure: {}") {
			t.Error("expected empty folder_structure map")
		}
		if !strings.Contains(out, "up_links: {}") {
			t.Error("expected empty up_links map")
		}

		var doc map[string]any
		if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("rendered template is not valid YAML: %v\n%s", err, out)
		}
	})

	t.Run("custom falls back to generic template", func(t *testing.T) {
		c := New()
		out, err := c.SettingsTemplate(Custom)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(out, "methodology: custom") {
			t.Error("expected custom methodology line")
		}
		if !strings.Contains(out, "note_types: {}") {
			t.Error("expected empty note_types in fallback")
		}

		var doc map[string]any
		if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("fallback template is not valid YAML: %v", err)
		}
	})

	t.Run("unknown name falls back", func(t *testing.T) {
		c := New()
		out, err := c.SettingsTemplate("kanban")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "methodology: kanban") {
			t.Error("expected requested name carried into fallback")
		}
	})
}
