package driving

import (
	"context"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

// DeckService turns raw text into a remote slide deck.
type DeckService interface {
	// Create splits the content, creates a presentation and applies the
	// ordered slide operations. Requires an authenticated session's
	// access token in the request.
	Create(ctx context.Context, req CreateDeckRequest) (*CreateDeckResponse, error)

	// Splitters lists the available segmentation strategies.
	Splitters() []SplitterInfo
}

// CreateDeckRequest represents a request to build a slide deck.
// @Description Request to create a presentation from raw text
type CreateDeckRequest struct {
	// Title is the presentation title.
	Title string `json:"title" example:"Quarterly Review"`

	// Content is the raw text to segment into slides.
	Content string `json:"content" example:"First slide\n\nSecond slide"`

	// Splitter selects the segmentation strategy.
	Splitter domain.SplitterConfig `json:"splitter"`

	// AccessToken is the delegated token resolved from the caller's
	// session. Populated by the transport layer, never by clients.
	AccessToken string `json:"-"`
}

// CreateDeckResponse contains the created presentation identity.
// @Description Response after successful deck creation
type CreateDeckResponse struct {
	PresentationID  string `json:"presentation_id" example:"1aBcD3fGh"`
	PresentationURL string `json:"presentation_url" example:"https://docs.google.com/presentation/d/1aBcD3fGh/edit"`

	// SlideCount is the number of slides created.
	SlideCount int `json:"slide_count" example:"4"`
}

// SplitterInfo describes one segmentation strategy.
// @Description Available text segmentation strategy
type SplitterInfo struct {
	Type        domain.SplitterType `json:"type" example:"max_words"`
	Description string              `json:"description" example:"Split after a maximum number of words"`
	Default     int                 `json:"default,omitempty" example:"50"`
}
