package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gamefi-market/src/models"
)

// Helpers shared by the SQL backends

const lastUpdateKey = "last_update"

// -----------------------------------------------------------------------------

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// -----------------------------------------------------------------------------

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// -----------------------------------------------------------------------------

func encodeHistoryMaps(entry models.MPriceHistoryEntry) (string, string, error) {
	prices, err := json.Marshal(entry.Prices)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode history prices: %w", err)
	}
	volumes, err := json.Marshal(entry.Volumes)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode history volumes: %w", err)
	}
	return string(prices), string(volumes), nil
}

// -----------------------------------------------------------------------------

func decodeHistoryEntry(ts int64, prices, volumes string) (models.MPriceHistoryEntry, error) {
	entry := models.MPriceHistoryEntry{Timestamp: fromUnixNano(ts)}
	if err := json.Unmarshal([]byte(prices), &entry.Prices); err != nil {
		return entry, fmt.Errorf("corrupt history prices at %d: %w", ts, err)
	}
	if volumes != "" && volumes != "null" {
		if err := json.Unmarshal([]byte(volumes), &entry.Volumes); err != nil {
			return entry, fmt.Errorf("corrupt history volumes at %d: %w", ts, err)
		}
	}
	return entry, nil
}

// -----------------------------------------------------------------------------

func formatLastUpdate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// -----------------------------------------------------------------------------

func parseLastUpdate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt last update %q: %w", s, err)
	}
	return t.UTC(), nil
}
