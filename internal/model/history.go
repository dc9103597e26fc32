package model

// HistoryEntry is one completed fact-check. Entries are never modified after creation.
type HistoryEntry struct {
	ID         string `json:"id,omitempty"`
	Claim      string `json:"claim"`
	Analysis   string `json:"analysis"`
	References string `json:"references"` // sanitized HTML fragment
	Timestamp  string `json:"timestamp"`  // human-readable capture time
}

// TimestampLayout is the layout used for HistoryEntry.Timestamp
const TimestampLayout = "2006-01-02 15:04:05"
