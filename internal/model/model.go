package model

// Event is a single calendar entry. The id is assigned by the store when
// the event is created and is never regenerated afterwards; everything
// else may be rewritten by an update.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}
