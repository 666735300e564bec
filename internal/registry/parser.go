package registry

import "strings"

const commentMarker = "#"

// structuredFieldCount is the number of comma-separated fields in a
// structured record: key, role, redeemed_by, redeemed_at.
const structuredFieldCount = 4

// ParseEntries parses the store blob into registry entries.
//
// Policy: split on newlines, trim each line, skip blanks and comments.
// One field is a bare key. Lines with two or three fields are malformed and
// skipped rather than destructured into empty values. Four or more fields
// take the first four, each trimmed.
func ParseEntries(content string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		if !strings.Contains(line, ",") {
			entries = append(entries, Entry{Key: line})
			continue
		}

		fields := strings.SplitN(line, ",", structuredFieldCount)
		if len(fields) < structuredFieldCount {
			continue
		}
		entries = append(entries, Entry{
			Key:        strings.TrimSpace(fields[0]),
			Role:       strings.TrimSpace(fields[1]),
			RedeemedBy: strings.TrimSpace(fields[2]),
			RedeemedAt: strings.TrimSpace(fields[3]),
		})
	}
	return entries
}

// FindKey returns the status of key within entries. Comparison is exact and
// case-sensitive; the first match wins when duplicates exist.
func FindKey(entries []Entry, key string) Status {
	for _, e := range entries {
		if e.Key == key {
			return e.Status()
		}
	}
	return Status{State: StateNotFound}
}
