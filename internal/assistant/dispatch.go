package assistant

import (
	"fmt"
	"sort"
	"strings"

	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/model"
	"github.com/ASLaskin/CalenAI/internal/store"
)

// noOperations is returned when a batch produced zero confirmations,
// covering both an empty batch and one where every entry was skipped.
const noOperations = "No calendar operations performed."

// Dispatch applies the extracted operations against the store, in order,
// and returns the newline-joined confirmation log.
//
// Entries are validated individually: an unrecognized operation kind or a
// missing required field skips that entry; a store-reported failure (e.g.
// unknown id) drops the confirmation line. Neither aborts the batch.
func Dispatch(st *store.Store, operations []map[string]any) string {
	var confirmations []string

	for _, op := range operations {
		kind := stringField(op, "operation")

		var line string
		var err error

		switch kind {
		case "add_event":
			line, err = applyAdd(st, op)
		case "delete_event":
			line, err = applyDelete(st, op)
		case "delete_events_by_title":
			line, err = applyDeleteByTitle(st, op)
		case "update_event":
			line, err = applyUpdate(st, op)
		case "move_event":
			line, err = applyMove(st, op)
		case "clear_day":
			line, err = applyClearDay(st, op)
		case "reorganize_day":
			line, err = applyReorganize(st, op)
		default:
			appLog.Debug("skipping unrecognized operation", "operation", kind)
			continue
		}

		if err != nil {
			appLog.Error("calendar operation failed", err, "operation", kind)
			continue
		}
		if line != "" {
			confirmations = append(confirmations, line)
		}
	}

	if len(confirmations) == 0 {
		return noOperations
	}
	return strings.Join(confirmations, "\n")
}

func applyAdd(st *store.Store, op map[string]any) (string, error) {
	date := stringField(op, "date")
	start := stringField(op, "start_time")
	end := stringField(op, "end_time")
	title := stringField(op, "title")
	description := stringField(op, "description")

	if date == "" || start == "" || end == "" || title == "" {
		return "", nil
	}

	if _, err := st.AddEvent(date, start, end, title, description); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added event: %s at %s-%s on %s", title, start, end, date), nil
}

func applyDelete(st *store.Store, op map[string]any) (string, error) {
	date := stringField(op, "date")
	id := stringField(op, "event_id")
	if date == "" || id == "" {
		return "", nil
	}

	ok, err := st.DeleteEvent(date, id)
	if err != nil || !ok {
		return "", err
	}
	return fmt.Sprintf("Deleted event with ID %s", id), nil
}

func applyDeleteByTitle(st *store.Store, op map[string]any) (string, error) {
	title := stringField(op, "title")
	if title == "" {
		return "", nil
	}

	deleted, err := st.DeleteEventsByTitle(title)
	if err != nil || len(deleted) == 0 {
		return "", err
	}
	return fmt.Sprintf("Deleted %d events with title containing '%s'", len(deleted), title), nil
}

func applyUpdate(st *store.Store, op map[string]any) (string, error) {
	date := stringField(op, "date")
	id := stringField(op, "event_id")
	fields := fieldMap(op, "fields")
	if date == "" || id == "" || len(fields) == 0 {
		return "", nil
	}

	ok, err := st.UpdateEvent(date, id, fields)
	if err != nil || !ok {
		return "", err
	}

	// Render fields in a stable order for a deterministic confirmation.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return fmt.Sprintf("Updated event %s: %s", id, strings.Join(pairs, ", ")), nil
}

func applyMove(st *store.Store, op map[string]any) (string, error) {
	oldDate := stringField(op, "old_date")
	newDate := stringField(op, "new_date")
	id := stringField(op, "event_id")
	if oldDate == "" || newDate == "" || id == "" {
		return "", nil
	}

	ok, err := st.MoveEvent(oldDate, id, newDate)
	if err != nil || !ok {
		return "", err
	}
	return fmt.Sprintf("Moved event %s from %s to %s", id, oldDate, newDate), nil
}

func applyClearDay(st *store.Store, op map[string]any) (string, error) {
	date := stringField(op, "date")
	if date == "" {
		return "", nil
	}

	removed, err := st.ClearDay(date)
	if err != nil || len(removed) == 0 {
		return "", err
	}
	return fmt.Sprintf("Cleared %d events from %s", len(removed), date), nil
}

func applyReorganize(st *store.Store, op map[string]any) (string, error) {
	date := stringField(op, "date")
	schedule := scheduleEvents(op, "schedule")
	if date == "" || len(schedule) == 0 {
		return "", nil
	}

	if err := st.ReorganizeDay(date, schedule); err != nil {
		return "", err
	}
	return fmt.Sprintf("Reorganized schedule for %s with %d events", date, len(schedule)), nil
}

// stringField reads op[key] as a string; non-string or absent values
// yield "".
func stringField(op map[string]any, key string) string {
	s, _ := op[key].(string)
	return s
}

// fieldMap reads op[key] as a string-to-string map, stringifying scalar
// values so a model that emits numbers does not lose the update.
func fieldMap(op map[string]any, key string) map[string]string {
	raw, ok := op[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			// skip
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// scheduleEvents reads op[key] as a list of event objects for
// reorganize_day. Entries that are not objects are dropped.
func scheduleEvents(op map[string]any, key string) []model.Event {
	raw, ok := op[key].([]any)
	if !ok {
		return nil
	}
	out := make([]model.Event, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.Event{
			ID:          stringField(obj, "id"),
			Title:       stringField(obj, "title"),
			StartTime:   stringField(obj, "start_time"),
			EndTime:     stringField(obj, "end_time"),
			Description: stringField(obj, "description"),
		})
	}
	return out
}
