// Package language defines the interfaces for text analysis capabilities.
package language

import (
	"context"
	"encoding/json"
	"fmt"
)

// Entity is a named entity found in text.
type Entity struct {
	Text     string
	Category string
}

// MarshalJSON encodes the entity as a two-element array, [text, category].
func (e Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Text, e.Category})
}

// UnmarshalJSON decodes the [text, category] form.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("entity: want [text, category], got %d elements", len(pair))
	}
	e.Text, e.Category = pair[0], pair[1]
	return nil
}

// EntityExtractor finds named entities in text.
type EntityExtractor interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// SentimentAnalyzer classifies the overall sentiment of text as one of
// POSITIVE, NEGATIVE, NEUTRAL or MIXED.
type SentimentAnalyzer interface {
	Sentiment(ctx context.Context, text string) (string, error)
}
