package splitplan

import (
	"os"
	"path/filepath"
	"testing"
)

func writePlan(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, PlanFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, `
[program]
archive = "app.jsarchive"

[output]
dir = "out"
report = "report.db"

[[split-point]]
id = 1
name = "settings"

[[split-point]]
id = 2
name = "editor"
`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Program.Archive != "app.jsarchive" {
		t.Errorf("archive = %q", p.Program.Archive)
	}
	if len(p.SplitPoints) != 2 {
		t.Fatalf("got %d split points, want 2", len(p.SplitPoints))
	}
	if p.SplitPoints[0].ID != 1 || p.SplitPoints[0].Name != "settings" {
		t.Errorf("first split point = %+v", p.SplitPoints[0])
	}
	if got, want := p.ArchivePath(), filepath.Join(p.Dir, "app.jsarchive"); got != want {
		t.Errorf("ArchivePath = %q, want %q", got, want)
	}
	if got, want := p.ReportPath(), filepath.Join(p.Dir, "report.db"); got != want {
		t.Errorf("ReportPath = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, `
[program]
archive = "app.jsarchive"
`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Output.Dir != "fragments" {
		t.Errorf("default output dir = %q, want fragments", p.Output.Dir)
	}
	if p.ReportPath() != "" {
		t.Errorf("ReportPath = %q, want empty when unconfigured", p.ReportPath())
	}
}

func TestLoadRejectsMissingArchive(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, `
[output]
dir = "out"
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for plan without program.archive")
	}
}

func TestLoadRejectsDuplicateSplitPoints(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, `
[program]
archive = "a"

[[split-point]]
id = 1
name = "x"

[[split-point]]
id = 1
name = "y"
`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for duplicate split point ids")
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, `
[program]
archive = "a"
`)
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	p, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if p == nil {
		t.Fatal("plan not found from nested directory")
	}
}

func TestFindAndLoadMissing(t *testing.T) {
	p, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil plan when no jsplit.toml exists")
	}
}
