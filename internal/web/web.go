// Package web exposes the scheduling assistant over HTTP: calendar reads
// and writes, a chat endpoint that runs a full assistant turn, and an ICS
// export of the upcoming window.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ASLaskin/CalenAI/internal/assistant"
	"github.com/ASLaskin/CalenAI/internal/ics"
	"github.com/ASLaskin/CalenAI/internal/model"
	"github.com/ASLaskin/CalenAI/internal/store"
)

// Server serves the HTTP API on top of a shared store and assistant.
type Server struct {
	store       *store.Store
	assistant   *assistant.Assistant
	horizonDays int
}

// NewServer constructs a Server. The assistant may be nil when the model
// endpoint is unavailable; /api/chat then answers 503.
func NewServer(st *store.Store, asst *assistant.Assistant, horizonDays int) *Server {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Server{store: st, assistant: asst, horizonDays: horizonDays}
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.listEvents)
		r.Post("/events", s.addEvent)
		r.Delete("/events/{id}", s.deleteEvent)
		r.Get("/context", s.calendarContext)
		r.Post("/chat", s.chat)
	})

	r.Get("/export.ics", s.exportICS)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type addEventRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Actions  string `json:"actions"`
}

// listEvents handles GET /api/events?date=YYYY-MM-DD
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	events := s.store.EventsForDay(date)
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// addEvent handles POST /api/events
func (s *Server) addEvent(w http.ResponseWriter, r *http.Request) {
	var req addEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Date == "" || req.StartTime == "" || req.EndTime == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "date, start_time, end_time and title are required")
		return
	}

	id, err := s.store.AddEvent(req.Date, req.StartTime, req.EndTime, req.Title, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save event")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// deleteEvent handles DELETE /api/events/{id}?date=YYYY-MM-DD
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	ok, err := s.store.DeleteEvent(date, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// calendarContext handles GET /api/context — the same digest the model
// receives, useful for debugging prompt grounding.
func (s *Server) calendarContext(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.store.Context(time.Now(), s.horizonDays)))
}

// chat handles POST /api/chat — one full assistant turn.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "model endpoint is not available")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.assistant.Turn(r.Context(), req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: result.Response, Actions: result.Actions})
}

// exportICS handles GET /export.ics
func (s *Server) exportICS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write([]byte(ics.Export(s.store, time.Now(), s.horizonDays)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
