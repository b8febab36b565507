package analyzer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeStreamlitProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import streamlit as st\n")
	writeFile(t, dir, "requirements.txt", "streamlit==1.32.0\npandas\n")

	a, err := Analyze(dir)
	if err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}

	if a.Entry != "app.py" {
		t.Errorf("Entry = %q, want app.py", a.Entry)
	}
	if a.Probe != "streamlit" {
		t.Errorf("Probe = %q, want streamlit", a.Probe)
	}
	if a.Command() != "streamlit run app.py" {
		t.Errorf("Command() = %q, want %q", a.Command(), "streamlit run app.py")
	}
}

func TestAnalyzeEntryPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "")
	writeFile(t, dir, "app.py", "")

	a, err := Analyze(dir)
	if err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}
	if a.Entry != "app.py" {
		t.Errorf("Entry = %q, want app.py to win over main.py", a.Entry)
	}
}

func TestAnalyzeFlaskProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "")
	writeFile(t, dir, "requirements.txt", "# deps\nflask>=3.0\ngunicorn\n")

	a, err := Analyze(dir)
	if err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}

	if a.Probe != "flask" {
		t.Errorf("Probe = %q, want flask", a.Probe)
	}
	if a.Command() != "flask --app main.py run" {
		t.Errorf("Command() = %q, want flask run command", a.Command())
	}
}

func TestAnalyzeNoEntryFile(t *testing.T) {
	if _, err := Analyze(t.TempDir()); err == nil {
		t.Error("Analyze() on an empty directory should return an error")
	}
}

func TestAnalyzeWithoutManifestFallsBackToStreamlit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "")

	a, err := Analyze(dir)
	if err != nil {
		t.Fatalf("Analyze() returned error: %v", err)
	}
	if a.Probe != "streamlit" {
		t.Errorf("Probe = %q, want default streamlit", a.Probe)
	}
}

func TestConfigFromAnalysis(t *testing.T) {
	a := Analysis{Name: "demo", Entry: "app.py", Manifest: "requirements.txt", Probe: "streamlit"}
	cfg := a.Config()

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want demo", cfg.Name)
	}
	if cfg.Command != "streamlit run app.py" {
		t.Errorf("Command = %q, want streamlit run app.py", cfg.Command)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated config is invalid: %v", err)
	}
}
