package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"chatrelay/internal/command"
	"chatrelay/internal/history"
	"chatrelay/internal/llm"
	"chatrelay/internal/metrics"
)

// Inbound is one webhook event reduced to the fields the pipeline consumes.
// Ephemeral: one per invocation, never persisted.
type Inbound struct {
	UserID     string
	Text       string
	ReplyToken string
}

// Orchestrator runs the per-request pipeline: load the user's history,
// route the text, mutate and persist, and produce the reply text.
//
// Contract:
// - The store owns every history; the orchestrator borrows it for one
//   request and writes the whole value back (last writer wins).
// - Any failure on load, completion or save aborts the pipeline; no reply
//   text is produced for a failed request.
// - Inspect never writes; Reset always leaves exactly the seed turn behind.
type Orchestrator struct {
	store     history.Store
	completer llm.Client
	persona   string
	stateless bool
	log       zerolog.Logger
}

// Config carries the one-time-init knobs for the pipeline.
type Config struct {
	// Persona seeds every fresh or reset history.
	Persona string
	// Stateless answers each message against the seed turn alone: nothing
	// is loaded or persisted and the command literals are plain messages.
	// This is the single-turn variant of the relay behind one flag.
	Stateless bool
	Logger    zerolog.Logger
}

func New(store history.Store, completer llm.Client, cfg Config) *Orchestrator {
	return &Orchestrator{
		store:     store,
		completer: completer,
		persona:   cfg.Persona,
		stateless: cfg.Stateless,
		log:       cfg.Logger,
	}
}

// HandleMessage runs one inbound message through the pipeline and returns
// the reply text to dispatch.
func (o *Orchestrator) HandleMessage(ctx context.Context, in Inbound) (string, error) {
	if o.stateless {
		return o.handleStateless(ctx, in)
	}

	h, err := o.store.Load(ctx, in.UserID)
	if err != nil {
		metrics.StoreFailures.WithLabelValues("load").Inc()
		return "", fmt.Errorf("load history: %w", err)
	}

	directive := command.Interpret(in.Text)
	metrics.WebhookEvents.WithLabelValues(directiveLabel(directive.Kind)).Inc()

	switch directive.Kind {
	case command.Inspect:
		return o.inspect(in, h)
	case command.Reset:
		return o.reset(ctx, in)
	default:
		return o.converse(ctx, in, h, directive.Text)
	}
}

// inspect renders the current history without touching the store.
func (o *Orchestrator) inspect(in Inbound, h history.History) (string, error) {
	o.log.Debug().Str("user_id", in.UserID).Int("turns", len(h)).Msg("history inspected")
	return h.Transcript(), nil
}

// reset overwrites the history with the seed, then re-reads it so the reply
// renders exactly what is now persisted.
func (o *Orchestrator) reset(ctx context.Context, in Inbound) (string, error) {
	if err := o.store.Save(ctx, in.UserID, history.Seed(o.persona)); err != nil {
		metrics.StoreFailures.WithLabelValues("save").Inc()
		return "", fmt.Errorf("reset history: %w", err)
	}

	h, err := o.store.Load(ctx, in.UserID)
	if err != nil {
		metrics.StoreFailures.WithLabelValues("load").Inc()
		return "", fmt.Errorf("reload history: %w", err)
	}

	o.log.Info().Str("user_id", in.UserID).Msg("history reset")
	return h.Transcript(), nil
}

// converse appends the user turn, completes against the full history,
// appends the assistant turn and writes everything back.
func (o *Orchestrator) converse(ctx context.Context, in Inbound, h history.History, text string) (string, error) {
	h = h.Append(history.RoleUser, text)

	reply, err := o.complete(ctx, h)
	if err != nil {
		return "", err
	}

	h = h.Append(history.RoleAssistant, reply)
	if err := o.store.Save(ctx, in.UserID, h); err != nil {
		metrics.StoreFailures.WithLabelValues("save").Inc()
		return "", fmt.Errorf("save history: %w", err)
	}

	o.log.Info().Str("user_id", in.UserID).Int("turns", len(h)).Msg("conversation continued")
	return reply, nil
}

// handleStateless answers against seed plus the current message only.
func (o *Orchestrator) handleStateless(ctx context.Context, in Inbound) (string, error) {
	metrics.WebhookEvents.WithLabelValues("continue").Inc()
	turns := history.Seed(o.persona).Append(history.RoleUser, in.Text)
	return o.complete(ctx, turns)
}

func (o *Orchestrator) complete(ctx context.Context, turns history.History) (string, error) {
	start := time.Now()
	reply, err := o.completer.Complete(ctx, turns)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionFailures.Inc()
		return "", fmt.Errorf("complete: %w", err)
	}
	return reply, nil
}

func directiveLabel(k command.Kind) string {
	switch k {
	case command.Inspect:
		return "inspect"
	case command.Reset:
		return "reset"
	default:
		return "continue"
	}
}
