package overlay

import "github.com/umputun/sportswatch/pkg/domain"

// Policy defines presentation and monetization settings of a tier
type Policy struct {
	Style      string
	Watermark  bool
	AdsEnabled bool
	Priority   int // lower is higher priority
}

var policies = map[domain.Tier]Policy{
	domain.TierFree:   {Style: "basic", Watermark: true, AdsEnabled: true, Priority: 4},
	domain.TierBronze: {Style: "standard", Watermark: true, AdsEnabled: true, Priority: 3},
	domain.TierSilver: {Style: "premium", Watermark: false, AdsEnabled: false, Priority: 2},
	domain.TierGold:   {Style: "elite", Watermark: false, AdsEnabled: false, Priority: 1},
}

// PolicyFor returns policy of the tier, unknown tiers get the free policy
func PolicyFor(tier domain.Tier) Policy {
	if p, ok := policies[tier]; ok {
		return p
	}
	return policies[domain.TierFree]
}
