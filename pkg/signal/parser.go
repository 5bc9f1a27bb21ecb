// Package signal parses free-text trading instructions like "BUY 25 TSLA"
// and renders them back into broadcast messages.
package signal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/umputun/sportswatch/pkg/domain"
)

var signalRe = regexp.MustCompile(`(?i)^(BUY|SELL)\s+(\d+(?:\.\d+)?)\s+([A-Z]+)$`)

// ParseError is returned when text doesn't look like a signal
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse signal from %q", e.Text)
}

// Parse converts text into a signal. Stop loss and take profit are not parsed
// from text, they are passed through as given.
func Parse(text string, stopLoss, takeProfit *decimal.Decimal) (domain.Signal, error) {
	text = strings.TrimSpace(text)
	m := signalRe.FindStringSubmatch(text)
	if m == nil {
		return domain.Signal{}, &ParseError{Text: text}
	}

	qty, err := decimal.NewFromString(m[2])
	if err != nil {
		return domain.Signal{}, &ParseError{Text: text}
	}

	return domain.Signal{
		Side:       domain.Side(strings.ToUpper(m[1])),
		Quantity:   qty,
		Symbol:     strings.ToUpper(m[3]),
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}, nil
}

// Format renders a signal as a chat message
func Format(sig domain.Signal) string {
	lines := []string{fmt.Sprintf("%s %s %s", sig.Side, sig.Quantity.String(), sig.Symbol)}
	if sig.StopLoss != nil {
		lines = append(lines, "STOP LOSS "+sig.StopLoss.String())
	}
	if sig.TakeProfit != nil {
		lines = append(lines, "TAKE PROFIT "+sig.TakeProfit.String())
	}
	return strings.Join(lines, "\n")
}
