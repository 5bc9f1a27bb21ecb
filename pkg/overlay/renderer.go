// Package overlay renders tier-based XML overlays for content items and stores them on disk.
package overlay

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/sportswatch/pkg/domain"
)

// Document is the root element of an overlay
type Document struct {
	XMLName      xml.Name     `xml:"post"`
	Tier         string       `xml:"tier,attr"`
	Priority     int          `xml:"priority,attr"`
	Metadata     Metadata     `xml:"metadata"`
	Content      Content      `xml:"content"`
	Overlay      Settings     `xml:"overlay"`
	Monetization Monetization `xml:"monetization"`
	Media        *Media       `xml:"media,omitempty"`
}

// Metadata section
type Metadata struct {
	Title       string `xml:"title"`
	Contributor string `xml:"contributor"`
	Published   string `xml:"published"`
}

// Content section
type Content struct {
	Summary string `xml:"summary"`
	Body    string `xml:"body"`
}

// Settings is the overlay section
type Settings struct {
	Template  string `xml:"template"`
	Watermark string `xml:"watermark"`
}

// Monetization section
type Monetization struct {
	AdsEnabled     string `xml:"ads_enabled"`
	AffiliateLinks string `xml:"affiliate_links"`
	TierBadge      string `xml:"tier_badge"`
}

// Media section, present only for items with a thumbnail
type Media struct {
	Thumbnail string `xml:"thumbnail"`
}

// Build makes overlay document for the item. Empty published time is filled with now.
func Build(item domain.ContentItem, now time.Time) Document {
	tier := item.Tier
	if !tier.Valid() {
		tier = domain.TierFree
	}
	policy := PolicyFor(tier)

	published := item.Published
	if published == "" {
		published = now.Format(time.RFC3339)
	}

	doc := Document{
		Tier:     tier.String(),
		Priority: policy.Priority,
		Metadata: Metadata{Title: item.Title, Contributor: item.Contributor, Published: published},
		Content:  Content{Summary: item.Summary, Body: item.Body},
		Overlay:  Settings{Template: policy.Style, Watermark: strconv.FormatBool(policy.Watermark)},
		Monetization: Monetization{
			AdsEnabled:     strconv.FormatBool(policy.AdsEnabled),
			AffiliateLinks: "true",
			TierBadge:      strings.ToUpper(tier.String()),
		},
	}
	if item.ThumbnailRef != "" {
		doc.Media = &Media{Thumbnail: item.ThumbnailRef}
	}
	return doc
}

// Render returns overlay XML of the item
func Render(item domain.ContentItem, now time.Time) ([]byte, error) {
	output, err := xml.MarshalIndent(Build(item, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal overlay: %w", err)
	}
	return append([]byte(xml.Header), output...), nil
}
