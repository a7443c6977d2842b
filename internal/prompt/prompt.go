package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ralt/ventus-clone/internal/models"
	"golang.org/x/term"
)

// DecisionSource supplies the decisions a bootstrap run needs from the user
type DecisionSource interface {
	// TargetDirectory returns the workspace directory, def on a blank answer
	TargetDirectory(def string) (string, error)

	// CloneMethod returns the raw method answer for repo. A blank answer
	// is returned as def.
	CloneMethod(repo string, candidates []models.Method, def models.Method) (string, error)

	// AcknowledgeProxy blocks until the user has read the proxy advisory
	AcknowledgeProxy() error

	// Retry asks whether a failed clone of repo should be attempted again
	Retry(repo string, cause error) (bool, error)
}

// Terminal implements DecisionSource with line based prompts
type Terminal struct {
	in   *bufio.Reader
	out  io.Writer
	echo bool // Answers are written after their prompt
}

// NewTerminal creates a terminal decision source. Unless in is a terminal,
// which echoes typed answers itself, every answer read is echoed to out so
// the transcript shows the decisions taken.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	echo := true
	if f, ok := in.(*os.File); ok && IsInteractive(f) {
		echo = false
	}

	return &Terminal{
		in:   bufio.NewReader(in),
		out:  out,
		echo: echo,
	}
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TargetDirectory implements DecisionSource
func (t *Terminal) TargetDirectory(def string) (string, error) {
	answer, err := t.ask(fmt.Sprintf("Enter the directory to clone repositories into (default: %s): ", def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// CloneMethod implements DecisionSource
func (t *Terminal) CloneMethod(repo string, candidates []models.Method, def models.Method) (string, error) {
	names := make([]string, len(candidates))
	for i, m := range candidates {
		names[i] = string(m)
	}

	answer, err := t.ask(fmt.Sprintf("How would you like to clone %s? (%s)(default %s): ",
		repo, strings.Join(names, "/"), def))
	if err != nil {
		return "", err
	}
	answer = strings.ToLower(answer)
	if answer == "" {
		return string(def), nil
	}
	return answer, nil
}

// AcknowledgeProxy implements DecisionSource
func (t *Terminal) AcknowledgeProxy() error {
	fmt.Fprintln(t.out, "You may need to set proxy for git/curl first.")
	_, err := t.ask("Is that OK? Press Enter to continue: ")
	return err
}

// Retry implements DecisionSource. Only "y" retries.
func (t *Terminal) Retry(repo string, cause error) (bool, error) {
	answer, err := t.ask("Do you want to retry? (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

// ask prints question and reads one trimmed line. End of input is a blank
// answer so that piped input falls back to defaults.
func (t *Terminal) ask(question string) (string, error) {
	fmt.Fprint(t.out, question)

	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.TrimSpace(line)
	switch {
	case t.echo && line != "":
		fmt.Fprintln(t.out, answer)
	case errors.Is(err, io.EOF) && line == "":
		fmt.Fprintln(t.out)
	}
	return answer, nil
}

// Defaults implements DecisionSource without asking anything: every
// question takes its default and failed clones are not retried
type Defaults struct{}

// TargetDirectory implements DecisionSource
func (Defaults) TargetDirectory(def string) (string, error) {
	return def, nil
}

// CloneMethod implements DecisionSource
func (Defaults) CloneMethod(repo string, candidates []models.Method, def models.Method) (string, error) {
	return string(def), nil
}

// AcknowledgeProxy implements DecisionSource
func (Defaults) AcknowledgeProxy() error {
	return nil
}

// Retry implements DecisionSource
func (Defaults) Retry(repo string, cause error) (bool, error) {
	return false, nil
}
