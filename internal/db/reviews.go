package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SearchReviews returns the text of the k review passages semantically nearest
// to the query embedding, ordered by similarity descending. May return fewer
// than k passages, or none.
func (c *Client) SearchReviews(ctx context.Context, embedding []float32, k int) ([]string, error) {
	if k <= 0 {
		k = 10
	}

	// HNSW KNN with ef=40 for better recall
	sql := fmt.Sprintf(`
		SELECT text, vector::distance::knn() AS dist FROM review
		WHERE embedding <|%d,40|> $emb
		ORDER BY dist ASC
	`, k)

	results, err := surrealdb.Query[[]struct {
		Text string  `json:"text"`
		Dist float64 `json:"dist"`
	}](ctx, c.db, sql, map[string]any{"emb": embedding})
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []string{}, nil
	}

	rows := (*results)[0].Result
	passages := make([]string, 0, len(rows))
	for _, r := range rows {
		passages = append(passages, r.Text)
	}
	return passages, nil
}

// UpsertReviewPassage stores one embedded passage of the review corpus.
func (c *Client) UpsertReviewPassage(ctx context.Context, id, text, restaurantName, source string, embedding []float32) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("review", $id) SET
			text = $text,
			restaurant_name = $restaurant_name,
			source = $source,
			embedding = $embedding
	`, map[string]any{
		"id":              id,
		"text":            text,
		"restaurant_name": restaurantName,
		"source":          source,
		"embedding":       embedding,
	})
	if err != nil {
		return fmt.Errorf("upsert review passage: %w", wrapQueryError(err))
	}
	return nil
}

// CountReviews returns the number of stored review passages.
func (c *Client) CountReviews(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `SELECT count() AS count FROM review GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}
