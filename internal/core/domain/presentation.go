package domain

import "fmt"

// SlideOperationKind identifies one remote mutation type.
type SlideOperationKind string

const (
	OpCreateSlide SlideOperationKind = "create_slide"
	OpInsertText  SlideOperationKind = "insert_text"
)

// SlideOperation is a single mutation in an ordered batch. Object IDs
// are client-assigned so insert operations can target slides created
// earlier in the same batch.
type SlideOperation struct {
	Kind     SlideOperationKind `json:"kind"`
	Index    int                `json:"index"`
	SlideID  string             `json:"slide_id"`
	ObjectID string             `json:"object_id"`
	Text     string             `json:"text,omitempty"`
}

// BuildSlideOperations translates ordered text segments into the batch
// of operations that realises them: for each segment, a slide creation
// followed by a text insertion into that slide's body placeholder.
// Operations for segment i strictly precede those for segment i+1.
func BuildSlideOperations(segments []string) []SlideOperation {
	ops := make([]SlideOperation, 0, 2*len(segments))
	for i, segment := range segments {
		slideID := fmt.Sprintf("slide_%d", i)
		bodyID := fmt.Sprintf("body_%d", i)
		ops = append(ops, SlideOperation{
			Kind:     OpCreateSlide,
			Index:    i,
			SlideID:  slideID,
			ObjectID: bodyID,
		})
		ops = append(ops, SlideOperation{
			Kind:     OpInsertText,
			Index:    i,
			SlideID:  slideID,
			ObjectID: bodyID,
			Text:     segment,
		})
	}
	return ops
}

// PresentationResult identifies a created presentation. It is returned
// to the caller and never persisted.
type PresentationResult struct {
	PresentationID  string `json:"presentation_id"`
	PresentationURL string `json:"presentation_url"`
}

// PresentationURL builds the canonical edit URL for a presentation ID.
func PresentationURL(id string) string {
	return "https://docs.google.com/presentation/d/" + id + "/edit"
}
