package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ralt/ventus-clone/internal/catalog"
	"github.com/ralt/ventus-clone/internal/models"
	"github.com/ralt/ventus-clone/internal/prompt"
	"github.com/ralt/ventus-clone/internal/selector"
	"github.com/ralt/ventus-clone/internal/utils"
	"github.com/sirupsen/logrus"
)

// Acquirer acquires a single planned repository
type Acquirer interface {
	Acquire(ctx context.Context, plan models.Plan) models.Outcome
}

// Bootstrapper prepares a workspace from a catalog
type Bootstrapper struct {
	config    *models.BootstrapConfig
	catalog   *catalog.Catalog
	selector  *selector.Selector
	acquirer  Acquirer
	decisions prompt.DecisionSource
}

// New creates a bootstrapper
func New(config *models.BootstrapConfig, cat *catalog.Catalog, sel *selector.Selector, acq Acquirer, decisions prompt.DecisionSource) *Bootstrapper {
	return &Bootstrapper{
		config:    config,
		catalog:   cat,
		selector:  sel,
		acquirer:  acq,
		decisions: decisions,
	}
}

// Run acquires every repository of the catalog in order and stages the
// helper scripts. Repository failures are recorded in the report and never
// stop the run; only workspace creation, cancellation and staging errors
// are returned.
func (b *Bootstrapper) Run(ctx context.Context) (*models.Report, error) {
	target, err := b.workspace()
	if err != nil {
		return nil, err
	}

	report := &models.Report{Workspace: target}

	for _, name := range b.missing() {
		err := models.NewError(models.ErrInvalidConfig, name, fmt.Errorf("not in the catalog"))
		logrus.Errorf("Skipping %s: %v", name, err)
		report.Add(models.Outcome{
			Repository: name,
			Path:       models.ResolvePath(target, name),
			Status:     models.StatusFailed,
			Err:        err,
		})
	}

	plans := b.Plan(target)

	if err := b.decisions.AcknowledgeProxy(); err != nil {
		logrus.Warnf("Proxy advisory not acknowledged: %v", err)
	}

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			report.Add(models.Outcome{
				Repository: plan.Repository.Name,
				Path:       plan.Path,
				Method:     plan.Method,
				Status:     models.StatusSkipped,
				Err:        err,
			})
			continue
		}
		report.Add(b.acquirer.Acquire(ctx, plan))
	}

	if err := ctx.Err(); err != nil {
		logSummary(report)
		return report, err
	}

	if err := b.stage(target); err != nil {
		return report, err
	}

	logSummary(report)
	logrus.Info("All repositories have been cloned or updated successfully.")
	logrus.Info("You can now run the build script in the target directory:")
	logrus.Infof("    cd %s && ./build-ventus.sh", target)
	logrus.Info("Make sure all dependencies are installed.")

	return report, nil
}

// Plan fixes the acquisition method of every repository in catalog order
func (b *Bootstrapper) Plan(target string) []models.Plan {
	repos := b.repositories()
	plans := make([]models.Plan, 0, len(repos))

	for _, repo := range repos {
		candidates, def := b.selector.Candidates(repo)

		answer, err := b.decisions.CloneMethod(repo.Name, candidates, def)
		if err != nil {
			logrus.Warnf("No clone method for %s: %v, using %s", repo.Name, err, def)
			answer = string(def)
		}

		method, err := b.selector.Select(repo, answer)
		if err != nil {
			logrus.Warnf("%v, using %s", err, def)
			method = def
		}

		plans = append(plans, models.NewPlan(target, repo, method))
	}

	return plans
}

// repositories returns the catalog entries to acquire, restricted to the
// configured selection when there is one
func (b *Bootstrapper) repositories() []models.Repository {
	repos := b.catalog.List()
	if len(b.config.Only) == 0 {
		return repos
	}

	selected := make(map[string]bool, len(b.config.Only))
	for _, name := range b.config.Only {
		selected[name] = true
	}

	out := repos[:0]
	for _, repo := range repos {
		if selected[repo.Name] {
			out = append(out, repo)
		}
	}
	return out
}

// missing returns the selected names the catalog does not know
func (b *Bootstrapper) missing() []string {
	var names []string
	for _, name := range b.config.Only {
		if _, ok := b.catalog.Get(name); !ok {
			names = append(names, name)
		}
	}
	return names
}

func (b *Bootstrapper) workspace() (string, error) {
	target := b.config.TargetDir
	if target == "" {
		var err error
		target, err = b.decisions.TargetDirectory(b.config.DefaultTargetDir)
		if err != nil {
			return "", models.NewError(models.ErrWorkspace, "", err)
		}
	}

	created, err := utils.EnsureDir(target)
	if err != nil {
		return "", models.NewError(models.ErrWorkspace, "", fmt.Errorf("failed to create %s: %w", target, err))
	}
	if created {
		logrus.Infof("Created directory: %s", target)
	} else {
		logrus.Infof("Directory already exists: %s", target)
	}

	return target, nil
}

// stage copies the helper scripts into the workspace root, replacing any
// earlier copies
func (b *Bootstrapper) stage(target string) error {
	for _, name := range b.config.StagedFiles {
		src := filepath.Join(b.config.ScriptsDir, name)
		dst := filepath.Join(target, name)

		if err := utils.CopyFile(src, dst); err != nil {
			return models.NewError(models.ErrStaging, "", fmt.Errorf("failed to copy %s: %w", name, err))
		}
		logrus.Debugf("Staged %s", dst)
	}
	return nil
}

func logSummary(report *models.Report) {
	logrus.Infof("Summary: %d acquired, %d skipped, %d failed",
		report.Count(models.StatusAcquired), report.Count(models.StatusSkipped), report.Count(models.StatusFailed))

	for _, o := range report.Outcomes {
		entry := logrus.WithFields(logrus.Fields{
			"repository": o.Repository,
			"method":     o.Method,
			"status":     o.Status,
		})

		switch o.Status {
		case models.StatusAcquired:
			entry.Infof("%s", o.Path)
		case models.StatusSkipped:
			entry.Warnf("%v", o.Err)
		default:
			entry.Errorf("%v", o.Err)
		}

		// A failed branch switch still counts as acquired
		if o.BranchErr != nil {
			entry.Warnf("checkout left on its previous branch: %v", o.BranchErr)
		}
		if o.HookErr != nil {
			entry.Warnf("post-clone hook failed: %v", o.HookErr)
		}
	}

	if report.Degraded() {
		logrus.Warn("Some repositories did not fully succeed, see the messages above")
	}
}
