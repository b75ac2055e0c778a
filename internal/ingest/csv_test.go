package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/dinewise/internal/models"
)

type storedPassage struct {
	id             string
	text           string
	restaurantName string
	source         string
	embedding      []float32
}

type memStore struct {
	passages    []storedPassage
	restaurants map[string]models.Restaurant
}

func newMemStore() *memStore {
	return &memStore{restaurants: make(map[string]models.Restaurant)}
}

func (s *memStore) UpsertReviewPassage(_ context.Context, id, text, restaurantName, source string, embedding []float32) error {
	s.passages = append(s.passages, storedPassage{id, text, restaurantName, source, embedding})
	return nil
}

func (s *memStore) UpsertRestaurant(_ context.Context, id string, r models.Restaurant) error {
	s.restaurants[id] = r
	return nil
}

type countingEmbedder struct {
	calls int
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

const sampleCSV = `Restaurant Name,Total Rating,Average Price,Restaurant Location,Neighbourhood,Hours of Operation,Cuisine,Tags,Reviewer Name,Reviewer Location,Overall Rating,Food Rating,Service Rating,Ambience Rating,Review Date,Review Text
The Ivy,4.3,£50-80,"1-5 West Street, London",Covent Garden,12:00-23:00,"British, European","fine dining",Jane,London,4,5,4,4,2025-01-12,Excellent Sunday roast and attentive staff.
The Ivy,4.3,£50-80,"1-5 West Street, London",Covent Garden,12:00-23:00,"British, European","fine dining",Tom,Leeds,3,3,4,3,2025-02-02,Decent but pricey for what you get.
Dishoom,4.6,£20-40,"12 Upper St Martin's Lane",Covent Garden,08:00-23:00,Indian,"street food",Amy,London,5,5,5,4,2025-03-10,The black daal is unbeatable.
`

func TestRunIngestsPassagesAndRestaurants(t *testing.T) {
	store := newMemStore()
	embedder := &countingEmbedder{}
	in := NewIngestor(store, embedder, nil)

	result, err := in.Run(context.Background(), strings.NewReader(sampleCSV), "csv-export")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 3, result.Passages)
	assert.Equal(t, 2, result.Restaurants)

	require.Len(t, store.passages, 3)
	first := store.passages[0]
	assert.Equal(t, "0-0", first.id)
	assert.Equal(t, "The Ivy", first.restaurantName)
	assert.Equal(t, "csv-export", first.source)
	assert.NotEmpty(t, first.embedding)

	// Passage text is pipe-joined with labels, ratings carry /5.
	assert.Contains(t, first.text, "Restaurant: The Ivy")
	assert.Contains(t, first.text, "Overall Rating: 4/5")
	assert.Contains(t, first.text, "Review: Excellent Sunday roast")
	assert.Contains(t, first.text, " | ")

	ivy, ok := store.restaurants["the_ivy"]
	require.True(t, ok)
	assert.Equal(t, "The Ivy", ivy.Name)
	assert.Equal(t, 4.3, ivy.TotalRating)
	assert.Equal(t, "Covent Garden", ivy.Neighbourhood)
	assert.True(t, ivy.IsActive)

	_, ok = store.restaurants["dishoom"]
	assert.True(t, ok)
}

func TestRunSkipsRowsWithoutName(t *testing.T) {
	csv := "Restaurant Name,Review Text\n,orphan review\nThe Ivy,good\n"
	store := newMemStore()
	in := NewIngestor(store, &countingEmbedder{}, nil)

	result, err := in.Run(context.Background(), strings.NewReader(csv), "test")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 1, result.Passages)
	assert.Equal(t, 1, result.Restaurants)
}

func TestRunChunksLongReviews(t *testing.T) {
	longReview := strings.TrimSpace(strings.Repeat("tasty ", 600))
	csv := fmt.Sprintf("Restaurant Name,Review Text\nThe Ivy,%s\n", longReview)

	store := newMemStore()
	in := NewIngestor(store, &countingEmbedder{}, nil)

	result, err := in.Run(context.Background(), strings.NewReader(csv), "test")
	require.NoError(t, err)

	// 600 words plus labels split into 256-word chunks.
	assert.Equal(t, 3, result.Passages)
	for _, p := range store.passages {
		assert.LessOrEqual(t, len(strings.Fields(p.text)), 256)
	}
	assert.Equal(t, "0-0", store.passages[0].id)
	assert.Equal(t, "0-1", store.passages[1].id)
	assert.Equal(t, "0-2", store.passages[2].id)
}

func TestSplitChunks(t *testing.T) {
	chunks := splitChunks("a b c d e", 2)
	assert.Equal(t, []string{"a b", "c d", "e"}, chunks)

	assert.Nil(t, splitChunks("", 2))
}

func TestRestaurantID(t *testing.T) {
	assert.Equal(t, "the_ivy", restaurantID("The Ivy"))
	assert.Equal(t, "dishoom_covent_garden", restaurantID("Dishoom (Covent Garden)"))
}
