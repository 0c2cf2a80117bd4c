package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/llm"
	"resume-roaster/internal/roast"
	"resume-roaster/internal/session"
	"resume-roaster/internal/shared/metrics"
	"resume-roaster/internal/shared/telemetry"
)

// runEffect performs the effects that act on the session itself. Caller holds ls.mu.
// EffectPersistCredential is left to the caller once the lock is released.
func (s *Service) runEffect(ctx context.Context, ls *liveSession, effect session.Effect) {
	switch effect.Kind {
	case session.EffectStartAnalysis:
		s.startAnalysis(ctx, ls, effect)
	case session.EffectCancelAnalysis:
		s.cancelAnalysis(ctx, ls, effect.Attempt)
	}
}

func (s *Service) startAnalysis(ctx context.Context, ls *liveSession, effect session.Effect) {
	callCtx, cancel := context.WithCancel(backgroundWithRequestID(ctx))
	done := make(chan struct{})
	ls.cancel = cancel
	ls.done = done
	ls.startedAt = s.now()

	metrics.IncAnalysisStarted()
	go s.completeAsync(callCtx, ls, effect, done)
}

func (s *Service) cancelAnalysis(ctx context.Context, ls *liveSession, attempt int) {
	if ls.cancel == nil {
		return
	}
	ls.cancel()
	ls.cancel = nil
	if ls.done != nil {
		close(ls.done)
		ls.done = nil
	}
	metrics.IncAnalysisCancelled()
	telemetry.Info("analysis.cancelled", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"client_id":  ls.clientID,
		"session_id": ls.id,
		"attempt":    attempt,
	})
}

// completeAsync performs the one model call for attempt and feeds its outcome back
// through the reducer. A call cancelled by reset or abandon is dropped.
func (s *Service) completeAsync(ctx context.Context, ls *liveSession, effect session.Effect, done chan struct{}) {
	var (
		reply string
		err   error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		reply, err = s.LLM.Analyze(ctx, roast.BuildPrompt(effect.Prompt), effect.Credential)
	}()

	var ev session.Event
	if err != nil {
		ev = session.AnalysisFailed{Attempt: effect.Attempt, Message: FailureMessage(err)}
	} else {
		ev = session.AnalysisSucceeded{Attempt: effect.Attempt, Result: roast.Segment(reply)}
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.done != done || !session.Accepts(ls.state, ev) {
		telemetry.Info("analysis.stale", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"session_id": ls.id,
			"attempt":    effect.Attempt,
		})
		return
	}

	prev := ls.state.Stage
	ls.state, _ = session.Reduce(ls.state, ev)
	ls.cancel()
	ls.cancel = nil
	close(ls.done)
	ls.done = nil

	duration := s.now().Sub(ls.startedAt)
	metrics.ObserveAnalysisDurationMs(float64(duration.Milliseconds()))
	fields := map[string]any{
		"request_id":       requestIDFromContext(ctx),
		"client_id":        ls.clientID,
		"session_id":       ls.id,
		"attempt":          effect.Attempt,
		"stage_transition": string(prev) + "->" + string(ls.state.Stage),
		"duration_ms":      duration.Milliseconds(),
	}
	if err != nil {
		metrics.IncAnalysisFailed()
		fields["error"] = err
		fields["last_error"] = ls.state.LastError
		telemetry.Error("analysis.failed", fields)
		return
	}
	metrics.IncAnalysisCompleted()
	if ls.state.Result != nil && ls.state.Result.Empty() {
		fields["empty_sections"] = true
	}
	telemetry.Info("analysis.completed", fields)
}

// FailureMessage maps a model client error to the message shown to the user.
func FailureMessage(err error) string {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		if perr.Message != "" {
			return perr.Message
		}
		return session.MsgProviderFailed
	}
	return session.MsgAnalysisFailed
}

func (s *Service) persistCredential(ctx context.Context, clientID, credential string) {
	if s.Credentials == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(backgroundWithRequestID(ctx), 5*time.Second)
	defer cancel()
	if err := credentials.Save(writeCtx, s.Credentials, clientID, credentials.APIKey, credential); err != nil {
		telemetry.Error("credentials.save_failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"client_id":  clientID,
			"error":      err,
		})
	}
}
