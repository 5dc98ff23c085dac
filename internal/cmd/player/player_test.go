package player

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBlueprint = `{
  "title": "Cell Anatomy",
  "diagram": {
    "zones": [
      {"id": "z1", "label": "Nucleus", "shape": "circle", "x": 50, "y": 50, "radius": 10},
      {"id": "z2", "label": "Membrane", "shape": "circle", "x": 80, "y": 20, "radius": 10}
    ]
  },
  "labels": [
    {"id": "l1", "text": "Nucleus", "correctZoneId": "z1"},
    {"id": "l2", "text": "Membrane", "correctZoneId": "z2"}
  ],
  "mechanics": [
    {"type": "drag_drop", "pointsPerCorrect": 10}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseConfig(t *testing.T) {
	fs := flag.NewFlagSet("player", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-blueprint", "bp.json", "-script", "actions.json", "-validate"})
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}
	if cfg.BlueprintPath != "bp.json" {
		t.Errorf("BlueprintPath = %q", cfg.BlueprintPath)
	}
	if cfg.ScriptPath != "actions.json" {
		t.Errorf("ScriptPath = %q", cfg.ScriptPath)
	}
	if !cfg.Validate {
		t.Error("Validate = false")
	}
}

func TestRunRequiresBlueprint(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), Config{}, &out); err == nil {
		t.Error("run(no blueprint) = nil, want error")
	}
}

func TestRunValidate(t *testing.T) {
	cfg := Config{
		BlueprintPath: writeFile(t, "bp.json", testBlueprint),
		Validate:      true,
	}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if !strings.Contains(out.String(), "blueprint ok") {
		t.Errorf("output = %q, want validation summary", out.String())
	}
	if !strings.Contains(out.String(), "max score 20") {
		t.Errorf("output = %q, want max score 20", out.String())
	}
}

func TestRunReplaysScript(t *testing.T) {
	script := `[
  {"verb": "place", "labelId": "l1", "zoneId": "z1"},
  {"verb": "place", "labelId": "l2", "zoneId": "z1"},
  {"verb": "place", "labelId": "l2", "zoneId": "z2"}
]`
	cfg := Config{
		BlueprintPath: writeFile(t, "bp.json", testBlueprint),
		ScriptPath:    writeFile(t, "actions.json", script),
	}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run() = %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "score 20 / 20") {
		t.Errorf("output = %q, want final score 20 / 20", text)
	}
	if !strings.Contains(text, "game complete") {
		t.Errorf("output = %q, want completion notice", text)
	}
	if !strings.Contains(text, "incorrect") {
		t.Errorf("output = %q, want one incorrect action", text)
	}
}

func TestRunSavesSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		BlueprintPath: writeFile(t, "bp.json", testBlueprint),
		ScriptPath:    writeFile(t, "actions.json", `[{"verb": "place", "labelId": "l1", "zoneId": "z1"}]`),
		StoragePath:   filepath.Join(dir, "player.db"),
		SessionID:     "sess-1",
	}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if !strings.Contains(out.String(), "snapshot saved") {
		t.Errorf("output = %q, want snapshot notice", out.String())
	}

	// A second run resumes nothing automatically but must reopen the db.
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("second run() = %v", err)
	}
}
