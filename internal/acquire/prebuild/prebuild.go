package prebuild

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

// Strategy acquires repositories from a prebuilt copy: the local prebuild
// directory when it is there, the release archive otherwise
type Strategy struct {
	fetcher   fetcher.Fetcher
	extractor archive.Extractor
}

// New creates a prebuild strategy
func New(f fetcher.Fetcher, e archive.Extractor) *Strategy {
	return &Strategy{
		fetcher:   f,
		extractor: e,
	}
}

// Methods implements acquire.Strategy
func (s *Strategy) Methods() []models.Method {
	return []models.Method{models.MethodPrebuild}
}

// Acquire implements acquire.Strategy. Nothing here is retried.
func (s *Strategy) Acquire(ctx context.Context, plan models.Plan) models.Outcome {
	repo := plan.Repository

	// The prebuild may have disappeared since the method was selected
	if repo.PrebuildPath != "" && utils.Exists(repo.PrebuildPath) {
		return s.copyLocal(plan)
	}

	return s.download(ctx, plan)
}

func (s *Strategy) copyLocal(plan models.Plan) models.Outcome {
	src := plan.Repository.PrebuildPath

	if err := utils.CopyTree(src, plan.Path); err != nil {
		logrus.Errorf("Failed to copy prebuilt binary: %v", err)
		return failed(models.ErrCopy, plan.Repository.Name, err)
	}

	logrus.Infof("Copied prebuilt binary from %s to %s", src, plan.Path)
	return models.Outcome{Status: models.StatusAcquired}
}

func (s *Strategy) download(ctx context.Context, plan models.Plan) models.Outcome {
	repo := plan.Repository

	if repo.PrebuildArchive == nil || repo.PrebuildArchive.URL == "" {
		err := fmt.Errorf("no local prebuild at %q and no prebuild archive configured", repo.PrebuildPath)
		logrus.Errorf("Cannot acquire prebuilt binary for %s: %v", repo.Name, err)
		return failed(models.ErrInvalidConfig, repo.Name, err)
	}

	tgz := filepath.Join(filepath.Dir(plan.Path), repo.Name+archive.Ext(repo.PrebuildArchive.URL))

	logrus.Infof("Downloading prebuilt binary for %s...", repo.Name)
	if err := s.fetcher.Fetch(ctx, *repo.PrebuildArchive, tgz); err != nil {
		logrus.Errorf("Failed to download or extract prebuilt binary: %v", err)
		return failed(models.ErrDownload, repo.Name, err)
	}
	defer func() {
		if err := os.Remove(tgz); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("Failed to remove %s: %v", tgz, err)
		}
	}()

	if _, err := utils.EnsureDir(plan.Path); err != nil {
		logrus.Errorf("Failed to download or extract prebuilt binary: %v", err)
		return failed(models.ErrExtract, repo.Name, err)
	}

	if err := s.extractor.Extract(ctx, tgz, plan.Path); err != nil {
		logrus.Errorf("Failed to download or extract prebuilt binary: %v", err)
		return failed(models.ErrExtract, repo.Name, err)
	}

	logrus.Infof("Downloaded and extracted prebuilt binary to %s", plan.Path)
	return models.Outcome{Status: models.StatusAcquired}
}

func failed(t models.ErrorType, repo string, err error) models.Outcome {
	return models.Outcome{
		Status: models.StatusFailed,
		Err:    models.NewError(t, repo, err),
	}
}
