// Package assistant orchestrates one conversation turn: it builds the
// model prompt from history and calendar context, calls the local model,
// extracts the command block from the raw response and applies it to the
// event store.
package assistant

import (
	"context"
	"time"

	"github.com/ASLaskin/CalenAI/internal/history"
	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/store"
)

// Assistant holds the per-session collaborators. Construct one per
// session; nothing here is package-global state.
type Assistant struct {
	client      *Client
	store       *store.Store
	history     *history.History
	horizonDays int
}

// New wires an Assistant from its collaborators. horizonDays bounds the
// calendar context window given to the model.
func New(client *Client, st *store.Store, hist *history.History, horizonDays int) *Assistant {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Assistant{
		client:      client,
		store:       st,
		history:     hist,
		horizonDays: horizonDays,
	}
}

// TurnResult is the outcome of one fully processed user turn.
type TurnResult struct {
	// Response is the model's natural-language reply, verbatim
	// (including any command block it embedded).
	Response string
	// Actions is the confirmation log from dispatching the extracted
	// operations; the fixed sentinel when nothing was applied.
	Actions string
}

// Turn processes a single user message end to end and records the
// exchange in history. A transport failure is returned as an error; a
// malformed or absent command block is not an error, it simply applies
// nothing.
func (a *Assistant) Turn(ctx context.Context, userText string) (TurnResult, error) {
	calendarContext := a.store.Context(time.Now(), a.horizonDays)
	prompt := buildPrompt(calendarContext, a.history.Window(historyWindow), userText)

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		return TurnResult{}, err
	}

	operations := ExtractOperations(response)
	actions := Dispatch(a.store, operations)
	if actions != noOperations {
		appLog.Info("applied calendar operations", "count", len(operations))
	}

	a.history.Append(userText, response)
	if err := a.history.Save(); err != nil {
		appLog.Error("history save failed", err)
	}

	return TurnResult{Response: response, Actions: actions}, nil
}

// Ping reports whether the model endpoint is reachable.
func (a *Assistant) Ping(ctx context.Context) bool {
	return a.client.Ping(ctx)
}
