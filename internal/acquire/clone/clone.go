package clone

import (
	"context"
	"os"

	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/ralt/ventus-clone/internal/vcs"
	"github.com/sirupsen/logrus"
)

// Retrier decides whether a failed clone is attempted again
type Retrier interface {
	Retry(repo string, cause error) (bool, error)
}

// Strategy clones repositories over https or ssh
type Strategy struct {
	git     vcs.Client
	retrier Retrier
	host    string
}

// New creates a clone strategy for repositories hosted on host
func New(git vcs.Client, retrier Retrier, host string) *Strategy {
	return &Strategy{
		git:     git,
		retrier: retrier,
		host:    host,
	}
}

// Methods implements acquire.Strategy
func (s *Strategy) Methods() []models.Method {
	return []models.Method{models.MethodHTTPS, models.MethodSSH}
}

// Acquire implements acquire.Strategy. An existing destination is only
// switched to the configured branch; otherwise the repository is cloned
// recursively, retrying for as long as the retrier agrees.
func (s *Strategy) Acquire(ctx context.Context, plan models.Plan) models.Outcome {
	repo := plan.Repository
	out := models.Outcome{}

	url, err := repo.CloneURL(s.host, plan.Method)
	if err != nil {
		out.Status = models.StatusFailed
		out.Err = models.NewError(models.ErrInvalidConfig, repo.Name, err)
		logrus.Errorf("Cannot clone %s: %v", repo.Name, err)
		return out
	}

	if utils.Exists(plan.Path) {
		return s.reconcile(ctx, plan)
	}

	for {
		if err := ctx.Err(); err != nil {
			out.Status = models.StatusSkipped
			out.Err = err
			return out
		}

		out.Attempts++
		logrus.Infof("Cloning %s from %s...", repo.Name, url)

		err := s.git.Clone(ctx, url, plan.Path, repo.Branch)
		if err == nil {
			logrus.Infof("Successfully cloned %s", repo.Name)
			out.Status = models.StatusAcquired
			return out
		}

		cloneErr := models.NewError(models.ErrClone, repo.Name, err)
		logrus.Errorf("Failed to clone %s: %v", repo.Name, err)

		// The destination did not exist before this attempt
		if rmErr := os.RemoveAll(plan.Path); rmErr != nil {
			logrus.Warnf("Failed to remove partial clone at %s: %v", plan.Path, rmErr)
		}

		if ctx.Err() != nil {
			out.Status = models.StatusSkipped
			out.Err = cloneErr
			return out
		}

		retry, perr := s.retrier.Retry(repo.Name, cloneErr)
		if perr != nil {
			logrus.Warnf("Cannot ask whether to retry %s: %v", repo.Name, perr)
		}
		if !retry {
			logrus.Warnf("Skipping %s", repo.Name)
			out.Status = models.StatusSkipped
			out.Err = cloneErr
			return out
		}
	}
}

// reconcile handles a destination that is already there. A failed branch
// switch is reported but leaves the repository acquired.
func (s *Strategy) reconcile(ctx context.Context, plan models.Plan) models.Outcome {
	repo := plan.Repository
	out := models.Outcome{
		Status:         models.StatusAcquired,
		AlreadyPresent: true,
	}

	logrus.Infof("Repository %s already exists at %s", repo.Name, plan.Path)
	logrus.Info("NOTE: You may need to git pull to update it.")

	if repo.Branch == "" {
		return out
	}

	logrus.Infof("Switching to branch %s...", repo.Branch)
	if err := s.git.Checkout(ctx, plan.Path, repo.Branch); err != nil {
		out.BranchErr = models.NewError(models.ErrCheckout, repo.Name, err)
		logrus.Warnf("Failed to switch branch: %v", err)
		return out
	}

	logrus.Infof("Switched to branch %s", repo.Branch)
	return out
}
