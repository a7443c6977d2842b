package acquire

import (
	"context"
	"fmt"

	"github.com/ralt/ventus-clone/internal/models"
	"github.com/sirupsen/logrus"
)

// Strategy acquires repositories with the methods it supports
type Strategy interface {
	// Acquire brings plan.Repository to plan.Path. Failures are reported
	// in the returned outcome, never as a panic or an abort.
	Acquire(ctx context.Context, plan models.Plan) models.Outcome

	// Methods returns the methods this strategy handles
	Methods() []models.Method
}

// HookRunner runs post-acquisition hooks
type HookRunner interface {
	Run(ctx context.Context, hook models.Hook, path string) error
}

// Acquirer dispatches a plan to the strategy registered for its method and
// runs the repository hook afterwards
type Acquirer struct {
	strategies map[models.Method]Strategy
	hooks      HookRunner
}

// New creates an acquirer. Later strategies override earlier ones for the
// same method.
func New(hooks HookRunner, strategies ...Strategy) *Acquirer {
	a := &Acquirer{
		strategies: make(map[models.Method]Strategy),
		hooks:      hooks,
	}
	for _, s := range strategies {
		for _, m := range s.Methods() {
			a.strategies[m] = s
		}
	}
	return a
}

// Acquire runs one plan. The hook runs at most once, and only when the
// repository was freshly acquired; a hook failure leaves it acquired.
func (a *Acquirer) Acquire(ctx context.Context, plan models.Plan) models.Outcome {
	name := plan.Repository.Name

	strategy, ok := a.strategies[plan.Method]
	if !ok {
		err := models.NewError(models.ErrMethod, name, fmt.Errorf("%w: %q", models.ErrInvalidMethod, plan.Method))
		logrus.Errorf("Invalid clone method: %s", plan.Method)
		return models.Outcome{
			Repository: name,
			Path:       plan.Path,
			Method:     plan.Method,
			Status:     models.StatusFailed,
			Err:        err,
		}
	}

	out := strategy.Acquire(ctx, plan)
	out.Repository = name
	out.Path = plan.Path
	out.Method = plan.Method

	if out.Status != models.StatusAcquired || out.AlreadyPresent {
		return out
	}

	if plan.Repository.Hook.Kind != models.HookNone && a.hooks != nil {
		logrus.Infof("Running %s hook for %s", plan.Repository.Hook.Kind, name)
		out.HookRan = true
		if err := a.hooks.Run(ctx, plan.Repository.Hook, plan.Path); err != nil {
			out.HookErr = models.NewError(models.ErrHook, name, err)
			logrus.Errorf("Post-clone hook for %s failed: %v", name, err)
		}
	}

	return out
}
