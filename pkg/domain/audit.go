package domain

import "time"

// AuditEntry is one immutable record of a pipeline action
type AuditEntry struct {
	ID        string         `json:"id" db:"id"`
	Timestamp time.Time      `json:"timestamp" db:"ts"`
	Action    string         `json:"action" db:"action"`
	Success   bool           `json:"success" db:"success"`
	Post      PostSnapshot   `json:"post"`
	Details   map[string]any `json:"details"`
}

// PostSnapshot is the reduced view of a content item kept in the audit log
type PostSnapshot struct {
	Title       string `json:"title"`
	Contributor string `json:"contributor"`
	Tier        Tier   `json:"tier"`
	Monetized   bool   `json:"monetization_flag"`
}

// Snapshot returns audit view of the item
func (c *ContentItem) Snapshot() PostSnapshot {
	return PostSnapshot{Title: c.Title, Contributor: c.Contributor, Tier: c.Tier, Monetized: c.Monetized}
}
