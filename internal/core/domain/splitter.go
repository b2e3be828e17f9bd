package domain

import (
	"fmt"
	"strings"
)

// SplitterType identifies a text segmentation strategy.
type SplitterType string

const (
	SplitterNewline   SplitterType = "newline"
	SplitterEmptyLine SplitterType = "empty_line"
	SplitterMaxWords  SplitterType = "max_words"
	SplitterMaxChars  SplitterType = "max_chars"
)

// Default limits for the bounded strategies.
const (
	DefaultMaxWords = 50
	DefaultMaxChars = 500
)

// SplitterConfig selects a segmentation strategy and its limit.
// The set of strategies is closed; adding one means touching the
// Validate and Split switches together.
type SplitterConfig struct {
	Type     SplitterType `json:"type"`
	MaxWords int          `json:"max_words,omitempty"`
	MaxChars int          `json:"max_chars,omitempty"`
}

// Validate checks that the strategy is known and its limit is usable.
func (c SplitterConfig) Validate() error {
	switch c.Type {
	case SplitterNewline, SplitterEmptyLine:
		return nil
	case SplitterMaxWords:
		if c.MaxWords < 1 {
			return fmt.Errorf("%w: max_words must be at least 1, got %d", ErrInvalidConfig, c.MaxWords)
		}
		return nil
	case SplitterMaxChars:
		if c.MaxChars < 1 {
			return fmt.Errorf("%w: max_chars must be at least 1, got %d", ErrInvalidConfig, c.MaxChars)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown splitter type %q", ErrInvalidConfig, c.Type)
	}
}

// Split segments text according to the configured strategy.
// It is pure and deterministic: empty input yields no segments, and no
// returned segment is empty after trimming.
func (c SplitterConfig) Split(text string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Type {
	case SplitterNewline:
		return splitNewline(text), nil
	case SplitterEmptyLine:
		return splitEmptyLine(text), nil
	case SplitterMaxWords:
		return splitMaxWords(text, c.MaxWords), nil
	case SplitterMaxChars:
		return splitMaxChars(text, c.MaxChars), nil
	default:
		return nil, fmt.Errorf("%w: unknown splitter type %q", ErrInvalidConfig, c.Type)
	}
}

// splitNewline returns one segment per non-blank line.
func splitNewline(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			segments = append(segments, line)
		}
	}
	return segments
}

// splitEmptyLine returns one segment per block, where blocks are
// separated by one or more blank lines.
func splitEmptyLine(text string) []string {
	var segments []string
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		segment := strings.TrimSpace(strings.Join(block, "\n"))
		if segment != "" {
			segments = append(segments, segment)
		}
		block = block[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return segments
}

// splitMaxWords groups whitespace-separated words into segments of at
// most maxWords words each.
func splitMaxWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	var segments []string
	for len(words) > 0 {
		n := maxWords
		if n > len(words) {
			n = len(words)
		}
		segments = append(segments, strings.Join(words[:n], " "))
		words = words[n:]
	}
	return segments
}

// splitMaxChars accumulates words greedily up to maxChars runes per
// segment, preferring word boundaries. A single word longer than the
// limit is hard-broken at maxChars runes.
func splitMaxChars(text string, maxChars int) []string {
	var segments []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			segments = append(segments, string(current))
			current = current[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)

		// Oversized word: flush what we have, then emit full chunks.
		if len(runes) > maxChars {
			flush()
			for len(runes) > maxChars {
				segments = append(segments, string(runes[:maxChars]))
				runes = runes[maxChars:]
			}
			current = append(current, runes...)
			continue
		}

		if len(current) == 0 {
			current = append(current, runes...)
			continue
		}

		if len(current)+1+len(runes) <= maxChars {
			current = append(current, ' ')
			current = append(current, runes...)
		} else {
			flush()
			current = append(current, runes...)
		}
	}
	flush()

	return segments
}
