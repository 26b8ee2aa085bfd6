package model

import (
	"encoding/json"
	"time"
)

// Product moderation statuses. Only approved products appear in public
// listings (by-date, trending, search); a direct by-slug lookup is not
// status-gated so owners and admins can still reach their submissions.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// LaunchDateLayout is the calendar-day format used for Product.LaunchDate.
// Launch dates are days, not timestamps — two products launched at 00:01
// and 23:59 UTC on the same day compete on the same leaderboard.
const LaunchDateLayout = "2006-01-02"

// Product is a submitted project on the board.
//
// Optional text columns (Description, LogoURL, ...) use the empty string as
// their zero value rather than nullable pointers — simpler to work with and
// safe to render.
//
// ShitCount is a denormalized counter of the product's votes. It is kept in
// sync with the votes table by paired updates inside a single transaction
// (see the vote repository) and is never recomputed from the ledger on read.
type Product struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Slug        string    `json:"slug"        db:"slug"` // unique, derived from Name
	Tagline     string    `json:"tagline"     db:"tagline"`
	Description string    `json:"description" db:"description"`
	URL         string    `json:"url"         db:"url"`
	LogoURL     string    `json:"logoUrl"     db:"logo_url"`
	BannerURL   string    `json:"bannerUrl"   db:"banner_url"`
	GitHubURL   string    `json:"githubUrl"   db:"github_url"`
	Agent       string    `json:"agent"       db:"agent"` // free-text label, e.g. "Cursor"
	LLM         string    `json:"llm"         db:"llm"`   // free-text label, e.g. "Claude"
	Tags        string    `json:"tags"        db:"tags"`  // JSON-encoded ordered list of strings
	UserID      string    `json:"userId"      db:"user_id"`
	LaunchDate  string    `json:"launchDate"  db:"launch_date"` // "YYYY-MM-DD", UTC
	ShitCount   int       `json:"shitCount"   db:"shit_count"`
	Status      string    `json:"status"      db:"status"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// TagList decodes the serialized tag column. See DecodeTags.
func (p *Product) TagList() []string {
	return DecodeTags(p.Tags)
}

// DecodeTags parses the JSON array stored in the tags column.
//
// Malformed data decodes to nil ("no tags") instead of returning an error.
// Listing queries must never fail because one row carries a half-written
// tags value, so the decode boundary degrades silently.
func DecodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// EncodeTags serializes a tag list for storage. An empty list encodes to
// the empty string so "no tags" stays distinguishable from "[]" noise.
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		// A []string cannot fail to marshal; keep the storage invariant anyway.
		return ""
	}
	return string(encoded)
}
