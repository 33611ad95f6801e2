package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"herald.app/relay/internal/model"
	"herald.app/relay/internal/obs"
)

// ReactionHandler is one branch of reaction processing.
type ReactionHandler interface {
	Name() string
	Handle(ctx context.Context, event model.ReactionEvent) (model.Outcome, error)
}

type HandlerResult struct {
	Handler string
	Outcome model.Outcome
	Err     error
}

// ReactionRouter fans a reaction event out to every handler and joins the results.
type ReactionRouter interface {
	Route(ctx context.Context, event model.ReactionEvent) []HandlerResult
}

type reactionRouter struct {
	handlers []ReactionHandler
	logger   *slog.Logger
}

func NewReactionRouter(logger *slog.Logger, handlers ...ReactionHandler) ReactionRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &reactionRouter{
		handlers: handlers,
		logger:   logger,
	}
}

func (r *reactionRouter) Route(ctx context.Context, event model.ReactionEvent) []HandlerResult {
	if event.IsBot || event.GuildID == "" {
		return nil
	}

	results := make([]HandlerResult, len(r.handlers))

	// Each goroutine writes only its own slot; the group never sees an error.
	var g errgroup.Group
	for i, h := range r.handlers {
		g.Go(func() error {
			results[i] = r.run(ctx, h, event)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *reactionRouter) run(ctx context.Context, h ReactionHandler, event model.ReactionEvent) (result HandlerResult) {
	result.Handler = h.Name()

	defer func() {
		if rec := recover(); rec != nil {
			result.Outcome = model.OutcomeFailed
			result.Err = fmt.Errorf("handler %s panicked: %v", h.Name(), rec)
		}
		if result.Err != nil {
			r.logger.ErrorContext(ctx, "reaction handler failed",
				"handler", result.Handler, "outcome", result.Outcome, "error", result.Err)
		} else if result.Outcome != model.OutcomeIgnored {
			r.logger.InfoContext(ctx, "reaction handled", "handler", result.Handler, "outcome", result.Outcome)
		}
		obs.ReactionOutcome(result.Handler, string(result.Outcome))
	}()

	result.Outcome, result.Err = h.Handle(ctx, event)
	return result
}
