package driven

import (
	"context"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

// SlidesAPI abstracts the remote presentation backend.
//
// Error contract for both calls: a transport failure before the request
// could be sent wraps domain.ErrRemoteUnavailable, a non-2xx or
// malformed response wraps domain.ErrRemoteRejected. BatchUpdate
// additionally wraps domain.ErrPartialApplyUnknown when the request was
// written but no usable response arrived, since some operations may
// have been applied.
type SlidesAPI interface {
	// CreatePresentation creates an empty presentation with the given
	// title and returns its ID.
	CreatePresentation(ctx context.Context, accessToken, title string) (string, error)

	// BatchUpdate applies the operations to the presentation in
	// submission order.
	BatchUpdate(ctx context.Context, accessToken, presentationID string, ops []domain.SlideOperation) error
}
