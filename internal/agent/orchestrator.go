package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/metrics"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
)

const (
	DefaultMaxRoundTrips  = 6
	DefaultRequestTimeout = 30 * time.Second
)

type Outcome string

const (
	OutcomeCompleted     Outcome = "completed"
	OutcomeFallback      Outcome = "fallback"
	OutcomeAborted       Outcome = "aborted"
	OutcomeProviderError Outcome = "provider_error"
)

// Result is the whole conversation after one orchestration run. Messages
// starts with the caller's conversation, unchanged.
type Result struct {
	Messages    []model.Message
	Preferences model.Preferences
	Outcome     Outcome
	RoundTrips  int
}

type Options struct {
	MaxRoundTrips  int
	RequestTimeout time.Duration
	Metrics        *metrics.Metrics
}

type Orchestrator struct {
	chat          llm.ChatClient
	tools         *Dispatcher
	fallback      *Fallback
	maxRoundTrips int
	timeout       time.Duration
	metrics       *metrics.Metrics
}

// NewOrchestrator wires the loop. A nil chat client means no model credential
// is configured and every request is answered by the fallback responder.
func NewOrchestrator(chat llm.ChatClient, tools *Dispatcher, opts Options) *Orchestrator {
	if opts.MaxRoundTrips <= 0 {
		opts.MaxRoundTrips = DefaultMaxRoundTrips
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Orchestrator{
		chat:          chat,
		tools:         tools,
		fallback:      NewFallback(tools),
		maxRoundTrips: opts.MaxRoundTrips,
		timeout:       opts.RequestTimeout,
		metrics:       opts.Metrics,
	}
}

// Run answers the latest turn of conversation. Provider and tool failures are
// reported inside the returned conversation; an error is returned only when
// ctx is done.
func (o *Orchestrator) Run(ctx context.Context, conversation []model.Message, prefs model.Preferences) (*Result, error) {
	out := model.CloneMessages(conversation)
	incomplete := !prefs.Complete()

	prefs, applied := ApplyCommand(prefs, out)
	if applied {
		slog.Debug("preference command applied", "preferences", prefs)
	}

	if o.chat == nil {
		text, updated := o.fallback.Respond(ctx, out, prefs, incomplete && prefs.Complete())
		return o.finish(appendAssistant(out, text), updated, OutcomeFallback, 0), nil
	}

	var partial string
	for round := 1; round <= o.maxRoundTrips; round++ {
		reply, err := o.complete(ctx, out, prefs)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			if errors.Is(err, llm.ErrQuotaExceeded) {
				slog.Warn("model quota exceeded, switching to fallback", "error", err, "round_trip", round)
				text, updated := o.fallback.Respond(ctx, out, prefs, incomplete && prefs.Complete())
				return o.finish(appendAssistant(out, quotaNotice+"\n\n"+text), updated, OutcomeFallback, round), nil
			}

			slog.Error("model call failed", "error", err, "round_trip", round)
			return o.finish(appendAssistant(out, err.Error()), prefs, OutcomeProviderError, round), nil
		}

		if len(reply.ToolCalls) == 0 {
			text := reply.Content
			if strings.TrimSpace(text) == "" {
				text = firstNonEmpty(partial, emptyModelAnswer)
			}
			return o.finish(appendAssistant(out, text), prefs, OutcomeCompleted, round), nil
		}

		if strings.TrimSpace(reply.Content) != "" {
			partial = reply.Content
		}

		requested := model.Message{Role: model.RoleAssistant, Content: reply.Content}
		for i, call := range reply.ToolCalls {
			if call.ID == "" {
				call.ID = fmt.Sprintf("call_%d_%d", round, i)
			}
			requested.ToolCalls = append(requested.ToolCalls, call)
		}
		out = append(out, requested)

		for _, call := range requested.ToolCalls {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result := o.tools.Dispatch(ctx, call, &prefs)
			out = append(out, result.Message())
		}
	}

	slog.Warn("orchestration loop hit round-trip bound", "max_round_trips", o.maxRoundTrips)
	text := firstNonEmpty(partial, fmt.Sprintf(unableToComplete, o.maxRoundTrips))
	return o.finish(appendAssistant(out, text), prefs, OutcomeAborted, o.maxRoundTrips), nil
}

func (o *Orchestrator) complete(ctx context.Context, conversation []model.Message, prefs model.Preferences) (*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}

	reply, err := o.chat.Complete(ctx, llm.ChatRequest{
		System:   []string{systemPrompt, preferencesPrefix + string(prefsJSON)},
		Messages: model.CloneMessages(conversation),
		Tools:    o.tools.Definitions(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("OpenAI request timed out after %s: %w", o.timeout, err)
		}
		return nil, err
	}
	return reply, nil
}

func (o *Orchestrator) finish(messages []model.Message, prefs model.Preferences, outcome Outcome, roundTrips int) *Result {
	o.metrics.ObserveOutcome(string(outcome), roundTrips)
	slog.Info("chat turn complete", "outcome", outcome, "round_trips", roundTrips, "messages", len(messages))
	return &Result{
		Messages:    messages,
		Preferences: prefs,
		Outcome:     outcome,
		RoundTrips:  roundTrips,
	}
}

func appendAssistant(messages []model.Message, text string) []model.Message {
	return append(messages, model.Message{Role: model.RoleAssistant, Content: text})
}
