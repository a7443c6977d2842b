package prompt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralt/ventus-clone/internal/models"
)

func TestTerminalAnswers(t *testing.T) {
	in := strings.NewReader("\n  SSH \n\nY\nn\n")
	var out bytes.Buffer
	term := NewTerminal(in, &out)

	dir, err := term.TargetDirectory("./ventus")
	if err != nil || dir != "./ventus" {
		t.Fatalf("Expected default directory, got %q (%v)", dir, err)
	}

	method, err := term.CloneMethod("llvm", []models.Method{models.MethodHTTPS, models.MethodSSH, models.MethodPrebuild}, models.MethodPrebuild)
	if err != nil || method != "ssh" {
		t.Fatalf("Expected ssh, got %q (%v)", method, err)
	}
	if !strings.Contains(out.String(), "How would you like to clone llvm? (https/ssh/prebuild-binary)(default prebuild-binary): ") {
		t.Errorf("Unexpected method prompt: %q", out.String())
	}

	if err := term.AcknowledgeProxy(); err != nil {
		t.Fatalf("AcknowledgeProxy failed: %v", err)
	}

	retry, err := term.Retry("llvm", errors.New("boom"))
	if err != nil || !retry {
		t.Errorf("Expected retry on Y, got %v (%v)", retry, err)
	}
	retry, err = term.Retry("llvm", errors.New("boom"))
	if err != nil || retry {
		t.Errorf("Expected no retry on n, got %v (%v)", retry, err)
	}
}

func TestTerminalEOF(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})

	method, err := term.CloneMethod("pocl", []models.Method{models.MethodHTTPS, models.MethodSSH}, models.MethodHTTPS)
	if err != nil || method != "https" {
		t.Errorf("Expected default on EOF, got %q (%v)", method, err)
	}

	retry, err := term.Retry("pocl", errors.New("boom"))
	if err != nil || retry {
		t.Errorf("Expected decline on EOF, got %v (%v)", retry, err)
	}
}

func TestDefaults(t *testing.T) {
	var d DecisionSource = Defaults{}

	if dir, _ := d.TargetDirectory("./ventus"); dir != "./ventus" {
		t.Errorf("Expected default directory, got %q", dir)
	}
	if m, _ := d.CloneMethod("llvm", nil, models.MethodPrebuild); m != "prebuild-binary" {
		t.Errorf("Expected default method, got %q", m)
	}
	if retry, _ := d.Retry("llvm", nil); retry {
		t.Error("Defaults must not retry")
	}
}

func TestTerminalEchoesPipedAnswers(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(" ssh \n\n"), &out)

	if _, err := term.CloneMethod("spike", []models.Method{models.MethodHTTPS, models.MethodSSH}, models.MethodHTTPS); err != nil {
		t.Fatalf("CloneMethod failed: %v", err)
	}
	if _, err := term.TargetDirectory("./ventus"); err != nil {
		t.Fatalf("TargetDirectory failed: %v", err)
	}

	want := "How would you like to clone spike? (https/ssh)(default https): ssh\n" +
		"Enter the directory to clone repositories into (default: ./ventus): \n"
	if out.String() != want {
		t.Errorf("Unexpected transcript:\n got %q\nwant %q", out.String(), want)
	}
}

func TestTerminalEchoesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers")
	if err := os.WriteFile(path, []byte("y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsInteractive(f) {
		t.Fatal("A regular file is not a terminal")
	}

	var out bytes.Buffer
	retry, err := NewTerminal(f, &out).Retry("pocl", errors.New("boom"))
	if err != nil || !retry {
		t.Fatalf("Expected retry, got %v (%v)", retry, err)
	}
	if out.String() != "Do you want to retry? (y/n): y\n" {
		t.Errorf("Answer not echoed: %q", out.String())
	}
}
