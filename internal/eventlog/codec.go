package eventlog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/splitbasket/splitbasket/internal/models"
)

// journalEntry is the structured on-disk form. Field names match the
// pre-existing journal data, so they are fixed.
type journalEntry struct {
	Timestamp   int64  `json:"timestamp"`
	ActionType  string `json:"actionType"`
	Description string `json:"description"`
	User        string `json:"user,omitempty"`
}

// encodeEntry produces the structured form. Writers never emit the legacy
// encoding.
func encodeEntry(entry models.LogEntry) (string, error) {
	b, err := json.Marshal(journalEntry{
		Timestamp:   entry.Timestamp,
		ActionType:  string(entry.Action),
		Description: entry.Description,
		User:        entry.User,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeEntry dispatches on the row shape: structured JSON objects and
// legacy delimited strings both decode to the same LogEntry.
func decodeEntry(row string) (models.LogEntry, error) {
	trimmed := strings.TrimSpace(row)
	if strings.HasPrefix(trimmed, "{") {
		return decodeStructured(trimmed)
	}
	return decodeLegacy(trimmed)
}

func decodeStructured(row string) (models.LogEntry, error) {
	var je journalEntry
	if err := json.Unmarshal([]byte(row), &je); err != nil {
		return models.LogEntry{}, fmt.Errorf("invalid structured entry: %w", err)
	}
	return models.LogEntry{
		Timestamp:   je.Timestamp,
		Action:      models.ActionType(je.ActionType),
		Description: je.Description,
		User:        je.User,
	}, nil
}

// decodeLegacy parses the old single-string encoding
// "<ts> | <TYPE> | <content>" with an optional trailing " | <user>".
// The stored description is rebuilt from the action type so legacy entries
// read the same as structured ones.
func decodeLegacy(row string) (models.LogEntry, error) {
	parts := strings.SplitN(row, " | ", 3)
	if len(parts) < 3 {
		return models.LogEntry{}, fmt.Errorf("invalid legacy entry: %q", row)
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("invalid legacy timestamp: %w", err)
	}

	action := models.ActionType(parts[1])
	content := parts[2]

	// The user rides in the last delimited segment of the content.
	user := ""
	if idx := strings.LastIndex(content, " | "); idx >= 0 {
		user = content[idx+3:]
		content = content[:idx]
	}

	return models.LogEntry{
		Timestamp:   timestamp,
		Action:      action,
		Description: Describe(action, content, user),
		User:        user,
	}, nil
}
