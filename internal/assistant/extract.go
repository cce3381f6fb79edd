package assistant

import (
	"encoding/json"
	"regexp"
	"strings"
)

// operationsKey is the top-level key the model must emit when it intends
// a calendar mutation.
const operationsKey = "calendar_operations"

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractOperations recovers the operation list from raw model output.
//
// The model is not a reliable emitter of exactly one well-formed JSON
// block, so extraction is an ordered chain of parse strategies rather
// than one strict parse:
//
//  1. collect every fenced brace block, in order of appearance;
//  2. if there are none, fall back to a brace-balanced scan around the
//     calendar_operations key anywhere in the text;
//  3. parse each candidate strictly, then once more with single quotes
//     normalized to double quotes;
//  4. the first candidate exposing the calendar_operations array wins.
//
// Exhausting the chain yields an empty list, which callers treat as "no
// action requested", never as an error.
func ExtractOperations(response string) []map[string]any {
	candidates := fencedCandidates(response)
	if len(candidates) == 0 {
		candidates = looseCandidates(response)
	}

	for _, candidate := range candidates {
		if ops, ok := parseOperations(candidate); ok {
			return ops
		}
	}
	return nil
}

// fencedCandidates returns all brace blocks inside triple-backtick fences.
func fencedCandidates(response string) []string {
	matches := fencedBlockRE.FindAllStringSubmatch(response, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// looseCandidates scans for a brace-delimited region containing the
// operations key even without fencing, by balancing braces outward from
// each occurrence of the key.
func looseCandidates(response string) []string {
	var out []string
	for offset := 0; ; {
		idx := strings.Index(response[offset:], operationsKey)
		if idx < 0 {
			return out
		}
		idx += offset

		if region, ok := braceRegionAround(response, idx); ok {
			out = append(out, region)
		}
		offset = idx + len(operationsKey)
	}
}

// braceRegionAround finds the innermost '{' before pos and returns the
// balanced region starting there, if one closes before the end of text.
func braceRegionAround(text string, pos int) (string, bool) {
	start := strings.LastIndexByte(text[:pos], '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// parseOperations attempts a strict parse of candidate, then a repaired
// parse with single-quote delimiters normalized, and reports whether the
// operations array was found.
func parseOperations(candidate string) ([]map[string]any, bool) {
	for _, attempt := range []string{candidate, repairQuotes(candidate)} {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(attempt), &parsed); err != nil {
			continue
		}
		raw, ok := parsed[operationsKey].([]any)
		if !ok {
			continue
		}

		ops := make([]map[string]any, 0, len(raw))
		for _, entry := range raw {
			if op, ok := entry.(map[string]any); ok {
				ops = append(ops, op)
			}
		}
		return ops, true
	}
	return nil, false
}

// repairQuotes normalizes single-quote string delimiters to double
// quotes. Some models emit Python-style quoting; this recovers the
// common case without attempting a general JSON repair.
func repairQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\"")
}
