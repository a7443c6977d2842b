package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Method is the way a repository is brought into the workspace
type Method string

const (
	MethodHTTPS    Method = "https"
	MethodSSH      Method = "ssh"
	MethodPrebuild Method = "prebuild-binary"
)

// ParseMethod normalizes a user supplied method name
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return m, nil
}

// Valid reports whether m is one of the known methods
func (m Method) Valid() bool {
	switch m {
	case MethodHTTPS, MethodSSH, MethodPrebuild:
		return true
	}
	return false
}

// IsClone reports whether m clones from a remote
func (m Method) IsClone() bool {
	return m == MethodHTTPS || m == MethodSSH
}

// Archive is a remote archive, optionally pinned by digest or signature
type Archive struct {
	URL          string `yaml:"url"`
	SHA256       string `yaml:"sha256,omitempty"`
	SignatureURL string `yaml:"signatureURL,omitempty"`
}

// HookKind selects the post-acquisition hook variant
type HookKind string

const (
	HookNone         HookKind = ""
	HookFetchDataset HookKind = "fetch-dataset"
)

// Hook is run once after a repository has been freshly acquired
type Hook struct {
	Kind HookKind `yaml:"kind"`

	// FetchDataset
	CachePath string  `yaml:"cache,omitempty"`
	Archive   Archive `yaml:"archive,omitempty"`
}

// Repository describes one entry of the catalog
type Repository struct {
	Name   string `yaml:"name"`
	Remote string `yaml:"remote,omitempty"` // owner/project on the git host
	Branch string `yaml:"branch,omitempty"`

	// Prebuild
	PrebuildPath    string   `yaml:"prebuild,omitempty"`
	PrebuildArchive *Archive `yaml:"prebuildArchive,omitempty"`

	Hook Hook `yaml:"hook,omitempty"`
}

// CloneURL builds the clone URL for the given transport
func (r Repository) CloneURL(host string, m Method) (string, error) {
	if r.Remote == "" {
		return "", fmt.Errorf("repository %s has no remote", r.Name)
	}
	switch m {
	case MethodHTTPS:
		return fmt.Sprintf("https://%s/%s.git", host, r.Remote), nil
	case MethodSSH:
		return fmt.Sprintf("git@%s:%s.git", host, r.Remote), nil
	default:
		return "", fmt.Errorf("%w: %q is not a clone method", ErrInvalidMethod, m)
	}
}

// Plan is the resolved acquisition record for one repository
type Plan struct {
	Repository Repository
	Method     Method
	Path       string
}

// NewPlan resolves the destination of repo inside workspace
func NewPlan(workspace string, repo Repository, m Method) Plan {
	return Plan{
		Repository: repo,
		Method:     m,
		Path:       ResolvePath(workspace, repo.Name),
	}
}

// ResolvePath returns the destination of the named repository
func ResolvePath(workspace, name string) string {
	return filepath.Join(workspace, name)
}
