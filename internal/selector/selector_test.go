package selector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/ventus-clone/internal/models"
)

func TestDefaultMethod(t *testing.T) {
	dir := t.TempDir()
	prebuild := filepath.Join(dir, "llvm-prebuild")
	os.MkdirAll(prebuild, 0755)

	tests := []struct {
		name       string
		repo       models.Repository
		wantDef    models.Method
		candidates int
	}{
		{"no prebuild", models.Repository{Name: "alpha", Remote: "a/alpha"}, models.MethodHTTPS, 2},
		{"readable prebuild", models.Repository{Name: "llvm", Remote: "a/llvm", PrebuildPath: prebuild}, models.MethodPrebuild, 3},
		{"missing prebuild", models.Repository{Name: "gamma", Remote: "a/gamma", PrebuildPath: filepath.Join(dir, "missing")}, models.MethodHTTPS, 2},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, def := s.Candidates(tt.repo)
			if def != tt.wantDef {
				t.Errorf("Expected default %s, got %s", tt.wantDef, def)
			}
			if len(candidates) != tt.candidates {
				t.Errorf("Expected %d candidates, got %v", tt.candidates, candidates)
			}

			m, err := s.Select(tt.repo, "")
			if err != nil || m != tt.wantDef {
				t.Errorf("Blank choice: expected %s, got %s (%v)", tt.wantDef, m, err)
			}
		})
	}
}

func TestUnreadablePrebuild(t *testing.T) {
	s := NewWithProber(func(string) bool { return false })
	repo := models.Repository{Name: "llvm", Remote: "a/llvm", PrebuildPath: "/exists/but/unreadable"}

	if _, def := s.Candidates(repo); def != models.MethodHTTPS {
		t.Errorf("Expected https default for unreadable prebuild, got %s", def)
	}
}

func TestSelectChoice(t *testing.T) {
	s := NewWithProber(func(string) bool { return true })
	repo := models.Repository{Name: "llvm", Remote: "a/llvm", PrebuildPath: "/prebuild"}

	for choice, want := range map[string]models.Method{
		"https":           models.MethodHTTPS,
		" SSH ":           models.MethodSSH,
		"Prebuild-Binary": models.MethodPrebuild,
	} {
		m, err := s.Select(repo, choice)
		if err != nil || m != want {
			t.Errorf("Select(%q): expected %s, got %s (%v)", choice, want, m, err)
		}
	}

	m, err := s.Select(repo, "ftp")
	if !errors.Is(err, models.ErrInvalidMethod) {
		t.Errorf("Expected ErrInvalidMethod, got %v", err)
	}
	if m != models.MethodPrebuild {
		t.Errorf("Rejected choice should report the default, got %s", m)
	}
}

func TestSelectPrebuildWhenMissing(t *testing.T) {
	s := NewWithProber(func(string) bool { return false })
	repo := models.Repository{Name: "gamma", Remote: "a/gamma", PrebuildPath: "/gone"}

	m, err := s.Select(repo, "prebuild-binary")
	if !errors.Is(err, models.ErrInvalidMethod) {
		t.Fatalf("Expected ErrInvalidMethod, got %v", err)
	}
	if m != models.MethodHTTPS {
		t.Errorf("Expected https fallback, got %s", m)
	}
}
