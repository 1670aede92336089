package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"clipper/internal/logging"
	"clipper/internal/services"
)

// Status is the typed result of one resolution strategy.
type Status int

const (
	// Skipped means the strategy does not handle this reference.
	Skipped Status = iota
	Resolved
	NotFound
	// Denied means the source refused access; the next strategy is tried.
	Denied
	// Failed ends resolution for the reference.
	Failed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case Denied:
		return "denied"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome carries a strategy's status plus the resolved path or the cause.
type Outcome struct {
	Status Status
	Path   string
	Err    error
}

// Strategy resolves an input reference to a local file.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, ref string) Outcome
}

// Resolver tries strategies in order until one resolves the reference or
// reports a terminal failure.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

func New(logger *slog.Logger, strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		logger:     logging.NewComponentLogger(logger, "resolve"),
	}
}

// Resolve returns the local path for ref. Errors carry services.ErrNotFound
// or services.ErrExternalTool.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	logger := logging.WithContext(ctx, r.logger)
	for _, strategy := range r.strategies {
		outcome := strategy.Resolve(ctx, ref)
		switch outcome.Status {
		case Resolved:
			logger.Debug("input resolved",
				logging.String("strategy", strategy.Name()),
				logging.String("path", outcome.Path),
			)
			return outcome.Path, nil
		case Skipped:
			continue
		case Denied:
			logging.WarnWithContext(logger, "remote source refused access, trying local copy", "resolve_denied",
				logging.String("strategy", strategy.Name()),
				logging.String("ref", ref),
				logging.Error(outcome.Err),
				logging.String(logging.FieldErrorHint, "place the file in the input directory under the same name"),
				logging.String(logging.FieldImpact, "falling back to local input"),
			)
			continue
		case NotFound:
			if outcome.Err != nil {
				return "", outcome.Err
			}
			return "", services.Wrap(services.ErrNotFound, "resolve", strategy.Name(), sourceNotFound(ref), nil)
		default:
			if outcome.Err != nil {
				return "", outcome.Err
			}
			return "", services.Wrap(services.ErrExternalTool, "resolve", strategy.Name(), ref, nil)
		}
	}
	return "", services.Wrap(services.ErrNotFound, "resolve", "", sourceNotFound(ref), nil)
}

func sourceNotFound(ref string) string {
	return filepath.Base(ref) + ": Source not found."
}
