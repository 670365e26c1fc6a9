package domain

import "time"

// Headline is one outdoor-news item from the RSS feed.
type Headline struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Date        string     `json:"date,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Image       string     `json:"image,omitempty"`
}

// Photo is a background image and its attribution.
type Photo struct {
	URL          string `json:"url"`
	Author       string `json:"author,omitempty"`
	AuthorURL    string `json:"author_url,omitempty"`
	Description  string `json:"description,omitempty"`
	FromFallback bool   `json:"from_fallback"`
}
