// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSONOrLines decodes captured CLI output that is either one JSON
// document or newline-delimited JSON objects; which of the two a given
// engine emits differs across versions and forks, so both are accepted
// without a priori knowledge. If every non-blank line, once trimmed,
// both starts with "{" and ends with "}", each line is parsed
// independently; otherwise the lines are concatenated and parsed as a
// single document, with a top-level array contributing its elements.
// All-blank input decodes to an empty slice, not an error.
func parseJSONOrLines(lines []string) ([]json.RawMessage, error) {
	if len(lines) > 0 && looksLikeJSONL(lines) {
		return parseLines(lines)
	}

	doc := strings.TrimSpace(strings.Join(lines, ""))
	if doc == "" {
		return nil, nil
	}
	if strings.HasPrefix(doc, "[") {
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(doc), &elems); err != nil {
			return nil, fmt.Errorf("parsing engine output: %w", err)
		}
		return elems, nil
	}
	var elem json.RawMessage
	if err := json.Unmarshal([]byte(doc), &elem); err != nil {
		return nil, fmt.Errorf("parsing engine output: %w", err)
	}
	return []json.RawMessage{elem}, nil
}

func looksLikeJSONL(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
			return false
		}
	}
	return true
}

func parseLines(lines []string) ([]json.RawMessage, error) {
	elems := make([]json.RawMessage, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var elem json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &elem); err != nil {
			return nil, fmt.Errorf("parsing engine output line: %w", err)
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

// decodeAll unmarshals every raw record into T.
func decodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decoding engine record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
