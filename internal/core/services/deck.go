package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

// Ensure deckService implements DeckService
var _ driving.DeckService = (*deckService)(nil)

// deckService implements the DeckService interface.
type deckService struct {
	slides driven.SlidesAPI
}

// NewDeckService creates a new DeckService.
func NewDeckService(slides driven.SlidesAPI) driving.DeckService {
	return &deckService{slides: slides}
}

// Create validates the request, segments the content and applies the
// resulting slide operations to a freshly created presentation.
// Nothing is retried: a failure after the batch was sent surfaces as
// domain.ErrPartialApplyUnknown so callers know a retry may duplicate.
func (s *deckService) Create(ctx context.Context, req driving.CreateDeckRequest) (*driving.CreateDeckResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrMalformedRequest)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrMalformedRequest)
	}
	if req.AccessToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	segments, err := req.Splitter.Split(req.Content)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: content produced no slides", domain.ErrMalformedRequest)
	}

	presentationID, err := s.slides.CreatePresentation(ctx, req.AccessToken, req.Title)
	if err != nil {
		return nil, fmt.Errorf("create presentation: %w", err)
	}

	ops := domain.BuildSlideOperations(segments)
	if err := s.slides.BatchUpdate(ctx, req.AccessToken, presentationID, ops); err != nil {
		return nil, fmt.Errorf("apply slide operations: %w", err)
	}

	return &driving.CreateDeckResponse{
		PresentationID:  presentationID,
		PresentationURL: domain.PresentationURL(presentationID),
		SlideCount:      len(segments),
	}, nil
}

// Splitters lists the available segmentation strategies.
func (s *deckService) Splitters() []driving.SplitterInfo {
	return []driving.SplitterInfo{
		{
			Type:        domain.SplitterNewline,
			Description: "One slide per non-blank line",
		},
		{
			Type:        domain.SplitterEmptyLine,
			Description: "Slides separated by blank lines",
		},
		{
			Type:        domain.SplitterMaxWords,
			Description: "Split after a maximum number of words",
			Default:     domain.DefaultMaxWords,
		},
		{
			Type:        domain.SplitterMaxChars,
			Description: "Split after a maximum number of characters, preferring word boundaries",
			Default:     domain.DefaultMaxChars,
		},
	}
}
