package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/ventus-clone/internal/archive"
	"github.com/ralt/ventus-clone/internal/fetcher"
	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/sirupsen/logrus"
)

// DataDir is the directory below a repository that datasets go into
const DataDir = "data"

// Runner dispatches post-acquisition hooks by kind
type Runner struct {
	fetcher   fetcher.Fetcher
	extractor archive.Extractor
}

// NewRunner creates a hook runner
func NewRunner(f fetcher.Fetcher, e archive.Extractor) *Runner {
	return &Runner{
		fetcher:   f,
		extractor: e,
	}
}

// Run runs hook against the repository at path
func (r *Runner) Run(ctx context.Context, hook models.Hook, path string) error {
	switch hook.Kind {
	case models.HookNone:
		return nil
	case models.HookFetchDataset:
		return r.fetchDataset(ctx, hook, path)
	default:
		return fmt.Errorf("unknown hook kind %q", hook.Kind)
	}
}

// fetchDataset fills <path>/data from the shared cache when it exists and
// from the dataset archive otherwise
func (r *Runner) fetchDataset(ctx context.Context, hook models.Hook, path string) error {
	dataPath := filepath.Join(path, DataDir)

	if hook.CachePath != "" && utils.Exists(hook.CachePath) {
		if err := utils.CopyTree(hook.CachePath, dataPath); err != nil {
			return models.NewError(models.ErrCopy, "", fmt.Errorf("failed to copy dataset: %w", err))
		}
		logrus.Infof("Copied dataset from %s to %s", hook.CachePath, dataPath)
		return nil
	}

	if hook.Archive.URL == "" {
		return fmt.Errorf("dataset cache %q not found and no archive configured", hook.CachePath)
	}

	if _, err := utils.EnsureDir(dataPath); err != nil {
		return models.NewError(models.ErrCopy, "", err)
	}

	tgz := filepath.Join(dataPath, archive.FileName(hook.Archive.URL, "dataset"+archive.Ext(hook.Archive.URL)))
	if err := r.fetcher.Fetch(ctx, hook.Archive, tgz); err != nil {
		return models.NewError(models.ErrDownload, "", fmt.Errorf("failed to download dataset: %w", err))
	}

	if err := r.extractor.Extract(ctx, tgz, dataPath); err != nil {
		return models.NewError(models.ErrExtract, "", fmt.Errorf("failed to extract dataset: %w", err))
	}

	if err := os.Remove(tgz); err != nil {
		logrus.Warnf("Failed to remove %s: %v", tgz, err)
	}

	logrus.Infof("Downloaded and extracted dataset to %s", path)
	return nil
}
