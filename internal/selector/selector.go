package selector

import (
	"fmt"
	"strings"

	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/sirupsen/logrus"
)

// Prober checks whether a local prebuild can be used
type Prober func(path string) bool

// Selector decides which acquisition method applies to a repository
type Selector struct {
	readable Prober
}

// New creates a selector probing the real filesystem
func New() *Selector {
	return &Selector{readable: utils.IsReadable}
}

// NewWithProber creates a selector with a custom readability probe
func NewWithProber(p Prober) *Selector {
	return &Selector{readable: p}
}

// Candidates returns the methods allowed for repo and the pre-selected one.
// prebuild-binary is only offered, and then preferred, when the local
// prebuild exists and is readable.
func (s *Selector) Candidates(repo models.Repository) ([]models.Method, models.Method) {
	candidates := []models.Method{models.MethodHTTPS, models.MethodSSH}

	if repo.PrebuildPath != "" {
		if s.readable(repo.PrebuildPath) {
			logrus.Debugf("Prebuild for %s found at %s", repo.Name, repo.PrebuildPath)
			return append(candidates, models.MethodPrebuild), models.MethodPrebuild
		}
		logrus.Debugf("Prebuild for %s not usable at %s", repo.Name, repo.PrebuildPath)
	}

	return candidates, models.MethodHTTPS
}

// Select resolves choice against the candidates of repo. A blank choice
// selects the default; anything outside the candidates is ErrInvalidMethod.
func (s *Selector) Select(repo models.Repository, choice string) (models.Method, error) {
	candidates, def := s.Candidates(repo)

	choice = strings.TrimSpace(choice)
	if choice == "" {
		return def, nil
	}

	m, err := models.ParseMethod(choice)
	if err != nil {
		return def, err
	}

	for _, c := range candidates {
		if c == m {
			return m, nil
		}
	}
	return def, fmt.Errorf("%w: %s is not available for %s", models.ErrInvalidMethod, m, repo.Name)
}
