/*
assistant.go - Conversational Q&A entry point

PURPOSE:
  Handles one chat turn: pending clarification first, then the deterministic
  intent cascade, then the LLM function-calling fallback over the fixed
  function set.

SESSIONS:
  Conversation state (the single pending clarification) is keyed by session
  id and lives in process memory only. Each turn reads the session's state,
  runs, and writes the possibly-updated state back under one lock.

STREAMING:
  AskStream produces the same reply as Ask and writes it as incremental
  text chunks terminated by the [DONE] sentinel.
*/
package assistant

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/hathim-t-ai/StaffScheduler-sub001/orchestrator"
	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// StreamDone is the sentinel terminating an /api/ask-stream response.
const StreamDone = "[DONE]"

const streamChunkSize = 48

// Assistant answers chat turns.
type Assistant struct {
	store    scheduling.Store
	agg      *scheduling.Aggregator
	resolver *scheduling.Resolver
	pipeline *scheduling.Pipeline
	oracle   Oracle
	reg      *registry
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]scheduling.Conversation
}

// New builds an assistant. oracle may be nil, which disables the LLM
// fallback (deterministic intents keep working).
func New(store scheduling.Store, agg *scheduling.Aggregator, pipeline *scheduling.Pipeline, oracle Oracle, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{
		store:    store,
		agg:      agg,
		resolver: pipeline.Resolver(),
		pipeline: pipeline,
		oracle:   oracle,
		reg:      &registry{store: store, agg: agg, res: pipeline.Resolver()},
		log:      log,
	}
}

// Ask handles one turn for one session.
func (a *Assistant) Ask(ctx context.Context, sessionID, message string) (Reply, error) {
	return a.ask(ctx, sessionID, message, scheduling.Today())
}

// ask is Ask with an explicit today, for tests.
func (a *Assistant) ask(ctx context.Context, sessionID, message string, today scheduling.Date) (Reply, error) {
	t := &turn{message: message, today: today, conv: a.session(sessionID)}

	reply, err := a.handleTurn(ctx, t)
	if err == nil {
		a.setSession(sessionID, t.conv)
	}
	if err != nil {
		return Reply{}, shapeError(err)
	}
	return reply, nil
}

func (a *Assistant) handleTurn(ctx context.Context, t *turn) (Reply, error) {
	// A pending clarification consumes the turn before any re-parsing.
	if t.conv.AwaitingAnswer() {
		conv, window, ok := t.conv.Resolve(t.message, t.today)
		if !ok {
			return Reply{Content: scheduling.ReportTimeframeQuestion, Type: "clarification"}, nil
		}
		t.conv = conv
		return reportReply(ctx, a, window)
	}

	for _, in := range cascade {
		if in.match(t) {
			reply, err := in.handler(ctx, a, t)
			if err != nil {
				// Resolution misses become structured text replies with
				// suggestions, not transport errors.
				var nf *scheduling.NotFoundError
				if errors.As(err, &nf) {
					return Reply{Content: nf.Message(), Type: nf.Code}, nil
				}
				return Reply{}, err
			}
			return reply, nil
		}
	}

	return a.askOracle(ctx, t)
}

func (a *Assistant) askOracle(ctx context.Context, t *turn) (Reply, error) {
	if a.oracle == nil {
		return Reply{}, &orchestrator.StatusError{
			Status:  http.StatusServiceUnavailable,
			Code:    "upstream_unavailable",
			Message: "no language model is configured for open-ended questions",
		}
	}
	call, err := a.oracle.ChooseFunction(ctx, t.message, a.reg.decls())
	if errors.Is(err, ErrNoFunctionCall) {
		return Reply{
			Content: "I can answer questions about staff, projects, budgets, and availability. Could you rephrase?",
			Type:    "text",
		}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	content, err := a.reg.execute(ctx, call, t.today)
	if err != nil {
		var nf *scheduling.NotFoundError
		if errors.As(err, &nf) {
			return Reply{Content: nf.Message(), Type: nf.Code}, nil
		}
		return Reply{}, err
	}
	return Reply{Content: content, Type: "text"}, nil
}

// AskStream answers one turn as incremental chunks followed by the sentinel.
func (a *Assistant) AskStream(ctx context.Context, sessionID, message string, w io.Writer) error {
	reply, err := a.Ask(ctx, sessionID, message)
	if err != nil {
		return err
	}
	flusher, _ := w.(http.Flusher)
	content := reply.Content
	for len(content) > 0 {
		n := streamChunkSize
		if n > len(content) {
			n = len(content)
		}
		if _, err := io.WriteString(w, content[:n]); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		content = content[n:]
	}
	if _, err := io.WriteString(w, StreamDone); err != nil {
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}

// =============================================================================
// SESSION STATE
// =============================================================================

func (a *Assistant) session(id string) scheduling.Conversation {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions == nil {
		return scheduling.Conversation{}
	}
	return a.sessions[id]
}

func (a *Assistant) setSession(id string, conv scheduling.Conversation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions == nil {
		a.sessions = make(map[string]scheduling.Conversation)
	}
	a.sessions[id] = conv
}

// shapeError maps engine failures onto the structured error contract shared
// with the gateway.
func shapeError(err error) error {
	var se *orchestrator.StatusError
	if errors.As(err, &se) {
		return se
	}
	return &orchestrator.StatusError{
		Status:  http.StatusInternalServerError,
		Code:    "upstream_error",
		Message: err.Error(),
	}
}
