package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/ventus-clone/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultHost is the git host clone URLs are built against
	DefaultHost = "github.com"

	// LocalPrebuildRoot is the shared directory of prebuilt artifacts on
	// the lab machines
	LocalPrebuildRoot = "/home/common/ventus-toolchain-prebuild"

	// ReleaseArchiveURL is the prebuilt toolchain downloaded when the
	// local prebuild is gone
	ReleaseArchiveURL = "http://dspdev.ime.tsinghua.edu.cn/images/ventus-release-v2.2.0-ubuntu22.04.tar.gz"

	// RodiniaDataURL is the gpu-rodinia dataset archive
	RodiniaDataURL = "https://www.dropbox.com/s/cc6cozpboht3mtu/rodinia-3.1-data.tar.gz"
)

// Catalog is the ordered set of repositories that make up a workspace
type Catalog struct {
	Host            string              `yaml:"host,omitempty"`
	PrebuildRoot    string              `yaml:"prebuildRoot,omitempty"`
	PrebuildArchive *models.Archive     `yaml:"prebuildArchive,omitempty"`
	Repositories    []models.Repository `yaml:"repositories"`
}

// Default returns the built-in Ventus catalog. Order matters: the
// toolchain has to be in place before the components built against it.
func Default() *Catalog {
	c := &Catalog{
		Host:            DefaultHost,
		PrebuildRoot:    LocalPrebuildRoot,
		PrebuildArchive: &models.Archive{URL: ReleaseArchiveURL},
		Repositories: []models.Repository{
			{Name: "llvm", Remote: "THU-DSP-LAB/llvm-project", PrebuildPath: "llvm-ventus-prebuild"},
			{Name: "pocl", Remote: "THU-DSP-LAB/pocl", Branch: "dev-devices"},
			{Name: "ocl-icd", Remote: "OCL-dev/ocl-icd"},
			{Name: "spike", Remote: "THU-DSP-LAB/ventus-gpgpu-isa-simulator"},
			{Name: "driver", Remote: "THU-DSP-LAB/ventus-driver", Branch: "dev-devices"},
			{
				Name:   "rodinia",
				Remote: "THU-DSP-LAB/gpu-rodinia",
				Hook: models.Hook{
					Kind:      models.HookFetchDataset,
					CachePath: "gpu-rodinia-data",
					Archive:   models.Archive{URL: RodiniaDataURL},
				},
			},
			{Name: "gpgpu", Remote: "THU-DSP-LAB/ventus-gpgpu", Branch: "dev-2024"},
			{Name: "simulator", Remote: "THU-DSP-LAB/ventus-gpgpu-cpp-simulator", Branch: "develop"},
		},
	}
	c.normalize()
	return c
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	if c.Host == "" {
		c.Host = DefaultHost
	}
	c.normalize()

	return &c, nil
}

// Validate checks that the catalog can be acquired
func (c *Catalog) Validate() error {
	if len(c.Repositories) == 0 {
		return invalid("", fmt.Errorf("catalog has no repositories"))
	}

	seen := make(map[string]bool)
	for i, repo := range c.Repositories {
		if repo.Name == "" {
			return invalid("", fmt.Errorf("repositories[%d]: name is required", i))
		}
		if filepath.Base(repo.Name) != repo.Name || repo.Name == "." || repo.Name == ".." {
			return invalid(repo.Name, fmt.Errorf("name must be a single path element"))
		}
		if seen[repo.Name] {
			return invalid(repo.Name, fmt.Errorf("duplicate repository"))
		}
		seen[repo.Name] = true

		if repo.Remote == "" && repo.PrebuildPath == "" {
			return invalid(repo.Name, fmt.Errorf("must specify 'remote' or 'prebuild'"))
		}

		switch repo.Hook.Kind {
		case models.HookNone:
		case models.HookFetchDataset:
			if repo.Hook.Archive.URL == "" && repo.Hook.CachePath == "" {
				return invalid(repo.Name, fmt.Errorf("fetch-dataset hook needs 'cache' or 'archive.url'"))
			}
		default:
			return invalid(repo.Name, fmt.Errorf("unknown hook kind %q", repo.Hook.Kind))
		}
	}
	return nil
}

// List returns a copy of the entries in acquisition order
func (c *Catalog) List() []models.Repository {
	out := make([]models.Repository, len(c.Repositories))
	copy(out, c.Repositories)
	return out
}

// Get returns the named repository
func (c *Catalog) Get(name string) (models.Repository, bool) {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return repo, true
		}
	}
	return models.Repository{}, false
}

// normalize resolves paths relative to PrebuildRoot and hands the shared
// prebuild archive to every repository that has a prebuild
func (c *Catalog) normalize() {
	for i := range c.Repositories {
		repo := &c.Repositories[i]

		repo.PrebuildPath = c.resolve(repo.PrebuildPath)
		repo.Hook.CachePath = c.resolve(repo.Hook.CachePath)

		if repo.PrebuildPath != "" && repo.PrebuildArchive == nil && c.PrebuildArchive != nil {
			archive := *c.PrebuildArchive
			repo.PrebuildArchive = &archive
		}
	}
}

func (c *Catalog) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.PrebuildRoot == "" {
		return path
	}
	return filepath.Join(c.PrebuildRoot, path)
}

func invalid(repo string, err error) error {
	return models.NewError(models.ErrInvalidConfig, repo, err)
}
