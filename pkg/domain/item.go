package domain

import "strings"

// Tier is a contributor's support level
type Tier string

const (
	TierFree   Tier = "free"
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Tiers lists all known tiers, highest priority last
var Tiers = []Tier{TierFree, TierBronze, TierSilver, TierGold}

// ParseTier normalizes s to a known tier, unknown values resolve to TierFree
func ParseTier(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return TierFree
}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierBronze, TierSilver, TierGold:
		return true
	}
	return false
}

// String returns tier name
func (t Tier) String() string { return string(t) }

// ContentItem represents a single contributor post taken from the feed.
// Summary and Monetized are filled by the generation stage.
type ContentItem struct {
	Title        string
	Body         string
	Contributor  string
	Tier         Tier
	Link         string
	Summary      string // empty until generated
	ThumbnailRef string // optional
	Published    string // ISO-8601, empty if unknown
	Monetized    bool
}

// HasSummary reports whether a summary was generated for the item
func (c *ContentItem) HasSummary() bool {
	return c.Summary != ""
}
