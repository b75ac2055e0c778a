package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	passages  []string
	err       error
	lastEmb   []float32
	lastLimit int
}

func (f *fakeSearcher) SearchReviews(_ context.Context, embedding []float32, k int) ([]string, error) {
	f.lastEmb = embedding
	f.lastLimit = k
	return f.passages, f.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vector, f.err
}

func TestRetrieve(t *testing.T) {
	searcher := &fakeSearcher{passages: []string{"passage one", "passage two"}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	r := NewReviewRetriever(searcher, embedder, nil, nil)

	passages, err := r.Retrieve(context.Background(), "popular dishes", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"passage one", "passage two"}, passages)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, searcher.lastEmb)
	assert.Equal(t, 10, searcher.lastLimit)
}

func TestRetrieveEmbedFailure(t *testing.T) {
	r := NewReviewRetriever(&fakeSearcher{}, &fakeEmbedder{err: errors.New("model offline")}, nil, nil)

	_, err := r.Retrieve(context.Background(), "query", 10)
	assert.ErrorContains(t, err, "embed query")
}

func TestRetrieveSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	r := NewReviewRetriever(searcher, &fakeEmbedder{vector: []float32{0.1}}, nil, nil)

	_, err := r.Retrieve(context.Background(), "query", 10)
	assert.ErrorContains(t, err, "search reviews")
}
