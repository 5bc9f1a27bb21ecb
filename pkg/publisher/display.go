package publisher

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/umputun/sportswatch/pkg/domain"
)

var tierColors = map[domain.Tier]*color.Color{
	domain.TierGold:   color.New(color.FgYellow, color.Bold),
	domain.TierSilver: color.New(color.FgWhite, color.Bold),
	domain.TierBronze: color.New(color.FgRed),
	domain.TierFree:   color.New(color.FgHiBlack),
}

// display prints post card to the console output
func (p *Publisher) display(item domain.ContentItem) {
	sep := strings.Repeat("─", 60)
	monetization := color.RedString("disabled")
	if item.Monetized {
		monetization = color.GreenString("enabled")
	}
	tc, ok := tierColors[item.Tier]
	if !ok {
		tc = tierColors[domain.TierFree]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", sep)
	fmt.Fprintf(&sb, "TITLE: %s\n", item.Title)
	fmt.Fprintf(&sb, "CONTRIBUTOR: %s\n", item.Contributor)
	fmt.Fprintf(&sb, "TIER: %s\n", tc.Sprint(strings.ToUpper(item.Tier.String())))
	fmt.Fprintf(&sb, "MONETIZATION: %s\n", monetization)
	if item.HasSummary() {
		fmt.Fprintf(&sb, "\nSUMMARY:\n%s\n", item.Summary)
	}
	fmt.Fprintf(&sb, "%s\n", sep)
	_, _ = fmt.Fprint(p.Out, sb.String())
}
