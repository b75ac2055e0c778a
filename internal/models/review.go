package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ReviewPassage is one embedded text fragment of the review corpus.
// Passages are what the retrieval tool returns, ranked by vector similarity.
type ReviewPassage struct {
	ID             surrealmodels.RecordID `json:"id"`
	Text           string                 `json:"text"`
	RestaurantName string                 `json:"restaurant_name,omitempty"`
	Source         string                 `json:"source,omitempty"`
	Embedding      []float32              `json:"embedding,omitempty"`
	CreatedAt      time.Time              `json:"created_at,omitempty"`
}
