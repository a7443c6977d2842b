package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ralt/ventus-clone/internal/acquire"
	"github.com/ralt/ventus-clone/internal/acquire/clone"
	"github.com/ralt/ventus-clone/internal/acquire/prebuild"
	"github.com/ralt/ventus-clone/internal/archive"
	"github.com/ralt/ventus-clone/internal/bootstrap"
	"github.com/ralt/ventus-clone/internal/catalog"
	"github.com/ralt/ventus-clone/internal/fetcher"
	"github.com/ralt/ventus-clone/internal/hook"
	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/prompt"
	"github.com/ralt/ventus-clone/internal/selector"
	"github.com/ralt/ventus-clone/internal/vcs"
	"github.com/ralt/ventus-clone/internal/verify"
	"github.com/sirupsen/logrus"
)

// Files staged into the workspace root after all repositories
var stagedFiles = []string{"build-ventus.sh", "env.sh"}

func validateConfig(config *models.BootstrapConfig) error {
	if config.HTTPRetries < 0 {
		return &models.BootstrapError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("http-retries must not be negative"),
		}
	}

	if config.DefaultTargetDir == "" {
		config.DefaultTargetDir = "./ventus"
	}
	if config.ScriptsDir == "" {
		config.ScriptsDir = "."
	}
	if len(config.StagedFiles) == 0 {
		config.StagedFiles = stagedFiles
	}

	return nil
}

func loadCatalog(config *models.BootstrapConfig) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if config.CatalogPath != "" {
		var err error
		cat, err = catalog.Load(config.CatalogPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Loaded %d repositories from %s", len(cat.Repositories), config.CatalogPath)
	}

	if config.Host != "" {
		cat.Host = config.Host
	}
	return cat, nil
}

func runBootstrap(ctx context.Context, config *models.BootstrapConfig) error {
	cat, err := loadCatalog(config)
	if err != nil {
		return err
	}

	var verifier verify.Verifier
	if config.KeyringPath != "" {
		gpg, err := verify.NewGPGVerifier(config.KeyringPath)
		if err != nil {
			return &models.BootstrapError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("failed to load keyring: %w", err),
			}
		}
		verifier = gpg
		logrus.Info("Archive signatures will be verified")
	}

	var decisions prompt.DecisionSource
	if config.AssumeDefaults {
		decisions = prompt.Defaults{}
	} else {
		if !prompt.IsInteractive(os.Stdin) {
			logrus.Info("stdin is not a terminal, answers are read from it and echoed")
		}
		decisions = prompt.NewTerminal(os.Stdin, os.Stdout)
	}

	git := vcs.NewExecClient()
	if !git.Available() {
		logrus.Warn("git was not found in PATH, cloning will fail")
	}

	f := fetcher.NewHTTPFetcher(config.HTTPRetries, verifier)
	extractor := archive.NewFileExtractor()

	acquirer := acquire.New(
		hook.NewRunner(f, extractor),
		clone.New(git, decisions, cat.Host),
		prebuild.New(f, extractor),
	)

	b := bootstrap.New(config, cat, selector.New(), acquirer, decisions)
	_, err = b.Run(ctx)
	return err
}
