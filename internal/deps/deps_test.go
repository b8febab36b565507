package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestInstallMissingManifest(t *testing.T) {
	p := Project{
		WorkDir:  t.TempDir(),
		Python:   "/nonexistent/python",
		Manifest: "requirements.txt",
		Probe:    "streamlit",
	}

	err := p.Install(context.Background())
	if !errors.Is(err, ErrManifestMissing) {
		t.Errorf("Install() error = %v, want ErrManifestMissing", err)
	}
}

func TestInstallBothInstallersUnavailable(t *testing.T) {
	workdir := t.TempDir()
	manifest := filepath.Join(workdir, "requirements.txt")
	if err := os.WriteFile(manifest, []byte("streamlit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A bogus interpreter makes pip fail; an empty PATH hides uv.
	t.Setenv("PATH", t.TempDir())

	p := Project{
		WorkDir:  workdir,
		Python:   "/nonexistent/python",
		Manifest: "requirements.txt",
		Probe:    "streamlit",
	}

	err := p.Install(context.Background())
	if !errors.Is(err, ErrInstallFailed) {
		t.Errorf("Install() error = %v, want ErrInstallFailed", err)
	}
}

func TestProbedBogusInterpreter(t *testing.T) {
	p := Project{
		WorkDir:  t.TempDir(),
		Python:   "/nonexistent/python",
		Manifest: "requirements.txt",
		Probe:    "streamlit",
	}

	if p.Probed(context.Background()) {
		t.Error("Probed() = true with a bogus interpreter")
	}
}

func TestPackages(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "requirements.txt")
	content := `# web framework
streamlit==1.32.0
pandas>=2.0
requests~=2.31
uvicorn[standard]<1.0
psycopg2 ; sys_platform != "win32"

-r extra-requirements.txt
`
	if err := os.WriteFile(manifest, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Packages(manifest)
	if err != nil {
		t.Fatalf("Packages() returned error: %v", err)
	}

	want := []string{"streamlit", "pandas", "requests", "uvicorn", "psycopg2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Packages() = %v, want %v", got, want)
	}
}

func TestPackagesMissingManifest(t *testing.T) {
	_, err := Packages(filepath.Join(t.TempDir(), "requirements.txt"))
	if !errors.Is(err, ErrManifestMissing) {
		t.Errorf("Packages() error = %v, want ErrManifestMissing", err)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"multi line", "collecting streamlit\nERROR: no matching distribution\n", "ERROR: no matching distribution"},
		{"single line", "error\n", "error"},
		{"empty", "", ""},
		{"trailing blanks", "boom\n\n\n", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.in); got != tt.want {
				t.Errorf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
