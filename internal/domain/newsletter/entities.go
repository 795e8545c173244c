// Package newsletter defines the core entities and repository contracts for
// subscriber storage, send tracking, and the sent-post ledger.
package newsletter

import "time"

// Subscriber is a single newsletter recipient. Email is stored lowercased
// and is the unique key.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// OpenEvent records a recipient opening a sent email. At most one open is
// kept per (emailId, email) pair.
type OpenEvent struct {
	Email     string    `json:"email"`
	OpenedAt  time.Time `json:"openedAt"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// ClickEvent records a recipient following a tracked link. Repeat clicks
// are all recorded.
type ClickEvent struct {
	Email     string    `json:"email"`
	ClickedAt time.Time `json:"clickedAt"`
	URL       string    `json:"url"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// TrackingRecord is the per-send ledger entry, created once before any
// individual email is dispatched and mutated by later open/click requests.
type TrackingRecord struct {
	EmailID   string       `json:"emailId"`
	PostSlug  string       `json:"postSlug"`
	PostTitle string       `json:"postTitle"`
	SentAt    time.Time    `json:"sentAt"`
	SentTo    int          `json:"sentTo"`
	Opens     []OpenEvent  `json:"opens"`
	Clicks    []ClickEvent `json:"clicks"`
}

// SentPostMarker marks a blog post as having triggered an automatic send,
// preventing duplicate sends when the same post is rechecked.
type SentPostMarker struct {
	Slug   string    `json:"slug"`
	Title  string    `json:"title"`
	Date   string    `json:"date"`
	SentAt time.Time `json:"sentAt"`
}

// Post is the slice of a blog post the dispatcher needs.
type Post struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Date       string   `json:"date"`
	Summary    string   `json:"summary,omitempty"`
	Draft      bool     `json:"draft,omitempty"`
	Images     []string `json:"images,omitempty"`
	MainPoints []string `json:"mainPoints,omitempty"`
}

// SendResult reports the outcome of a dispatch batch.
type SendResult struct {
	Sent            int      `json:"sent"`
	Failed          int      `json:"failed"`
	EmailID         string   `json:"emailId,omitempty"`
	Subscribers     int      `json:"subscribers"`
	FailedAddresses []string `json:"failedAddresses,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// CheckResult reports the outcome of an automatic post-publish check.
type CheckResult struct {
	Checked int      `json:"checked"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
