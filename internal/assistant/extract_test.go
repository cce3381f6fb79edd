package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedBlock(t *testing.T) {
	response := "Sure, I'll add that.\n" +
		"```json\n" +
		`{"calendar_operations": [{"operation": "add_event", "date": "2026-09-01", "start_time": "9:00am", "end_time": "10:00am", "title": "Standup"}]}` +
		"\n```\nDone!"

	ops := ExtractOperations(response)
	require.Len(t, ops, 1)
	assert.Equal(t, "add_event", ops[0]["operation"])
	assert.Equal(t, "Standup", ops[0]["title"])
}

func TestExtractSkipsInvalidFirstBlock(t *testing.T) {
	response := "Here you go:\n" +
		"```json\n{this is not json at all}\n```\n" +
		"Actually, here:\n" +
		"```json\n" +
		`{"calendar_operations": [{"operation": "clear_day", "date": "2026-09-05"}]}` +
		"\n```"

	ops := ExtractOperations(response)
	require.Len(t, ops, 1)
	assert.Equal(t, "clear_day", ops[0]["operation"])
	assert.Equal(t, "2026-09-05", ops[0]["date"])
}

func TestExtractFirstValidBlockWins(t *testing.T) {
	response := "```json\n" +
		`{"calendar_operations": [{"operation": "clear_day", "date": "2026-09-01"}]}` +
		"\n```\n```json\n" +
		`{"calendar_operations": [{"operation": "clear_day", "date": "2026-09-02"}]}` +
		"\n```"

	ops := ExtractOperations(response)
	require.Len(t, ops, 1)
	assert.Equal(t, "2026-09-01", ops[0]["date"])
}

func TestExtractRepairsSingleQuotes(t *testing.T) {
	response := "```json\n" +
		`{'calendar_operations': [{'operation': 'delete_event', 'date': '2026-09-01', 'event_id': 'abc-123'}]}` +
		"\n```"

	ops := ExtractOperations(response)
	require.Len(t, ops, 1)
	assert.Equal(t, "delete_event", ops[0]["operation"])
	assert.Equal(t, "abc-123", ops[0]["event_id"])
}

func TestExtractUnfencedFallback(t *testing.T) {
	response := `I'll clear that day. {"calendar_operations": [{"operation": "clear_day", "date": "2026-09-01"}]} All set.`

	ops := ExtractOperations(response)
	require.Len(t, ops, 1)
	assert.Equal(t, "clear_day", ops[0]["operation"])
}

func TestExtractIgnoresBlockWithoutKey(t *testing.T) {
	response := "```json\n" +
		`{"something_else": [1, 2, 3]}` +
		"\n```"

	assert.Empty(t, ExtractOperations(response))
}

func TestExtractNothing(t *testing.T) {
	assert.Empty(t, ExtractOperations("Just a friendly reply with no commands."))
	assert.Empty(t, ExtractOperations(""))
}
