package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASLaskin/CalenAI/internal/history"
)

// fakeOllama answers the generate endpoint with a canned response and
// records the prompt it received.
func fakeOllama(t *testing.T, response string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req struct {
				Prompt string `json:"prompt"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if gotPrompt != nil {
				*gotPrompt = req.Prompt
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTurnAppliesExtractedOperations(t *testing.T) {
	st := newTestStore(t)
	hist := history.Load(filepath.Join(t.TempDir(), "history.json"))

	response := "I've added your meeting!\n```json\n" +
		`{"calendar_operations": [{"operation": "add_event", "date": "2026-09-01", "start_time": "3:00pm", "end_time": "4:00pm", "title": "Dentist"}]}` +
		"\n```"
	var gotPrompt string
	srv := fakeOllama(t, response, &gotPrompt)

	client := NewClient(srv.URL, "llama3.2", 0.7)
	asst := New(client, st, hist, 7)
	require.True(t, asst.Ping(context.Background()))

	result, err := asst.Turn(context.Background(), "book a dentist appointment")
	require.NoError(t, err)

	assert.Equal(t, response, result.Response)
	assert.Equal(t, "Added event: Dentist at 3:00pm-4:00pm on 2026-09-01", result.Actions)

	events := st.EventsForDay("2026-09-01")
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Title)

	// The prompt carries the protocol, the calendar context and the turn.
	assert.Contains(t, gotPrompt, "calendar_operations")
	assert.Contains(t, gotPrompt, "Current Calendar:")
	assert.Contains(t, gotPrompt, "Human: book a dentist appointment\nAssistant:")

	// The exchange was recorded.
	assert.Equal(t, 1, hist.Len())
}

func TestTurnWithoutCommandBlock(t *testing.T) {
	st := newTestStore(t)
	hist := history.Load(filepath.Join(t.TempDir(), "history.json"))
	srv := fakeOllama(t, "You have nothing scheduled today.", nil)

	asst := New(NewClient(srv.URL, "llama3.2", 0.7), st, hist, 7)

	result, err := asst.Turn(context.Background(), "what's on today?")
	require.NoError(t, err)
	assert.Equal(t, "No calendar operations performed.", result.Actions)
}

func TestTurnReplaysHistoryWindow(t *testing.T) {
	st := newTestStore(t)
	hist := history.Load(filepath.Join(t.TempDir(), "history.json"))
	for i := 0; i < 7; i++ {
		hist.Append("old prompt", "old response")
	}
	hist.Append("latest prompt", "latest response")

	var gotPrompt string
	srv := fakeOllama(t, "Sure.", &gotPrompt)
	asst := New(NewClient(srv.URL, "llama3.2", 0.7), st, hist, 7)

	_, err := asst.Turn(context.Background(), "hello")
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "latest prompt")
	// Five replayed exchanges plus the current turn.
	assert.Equal(t, 6, strings.Count(gotPrompt, "Human: "))
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "llama3.2", 0.7)
	_, err := client.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama generate")
}
