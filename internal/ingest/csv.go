// Package ingest loads restaurant review exports into the store: parse CSV
// rows, build searchable passages, embed them, and upsert both the passages
// and the per-restaurant aggregate records.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dinewise/dinewise/internal/models"
)

// embedBatchSize bounds how many chunks are embedded per call.
const embedBatchSize = 64

// chunkWords is the passage chunk size in words.
const chunkWords = 256

// Store is the storage surface ingestion writes to.
type Store interface {
	UpsertReviewPassage(ctx context.Context, id, text, restaurantName, source string, embedding []float32) error
	UpsertRestaurant(ctx context.Context, id string, r models.Restaurant) error
}

// BatchEmbedder embeds a batch of texts.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Ingestor runs the CSV-to-store pipeline.
type Ingestor struct {
	store    Store
	embedder BatchEmbedder
	logger   *slog.Logger
}

// NewIngestor creates an ingestor.
func NewIngestor(store Store, embedder BatchEmbedder, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{store: store, embedder: embedder, logger: logger}
}

// Result summarizes one ingestion run.
type Result struct {
	Rows        int
	Passages    int
	Restaurants int
}

// row is one parsed review export line.
type row struct {
	fields map[string]string
}

func (r row) get(name string) string {
	return strings.TrimSpace(r.fields[name])
}

// Run ingests a review CSV export. Each row becomes one or more embedded
// passages; each distinct restaurant becomes an aggregate record.
func (in *Ingestor) Run(ctx context.Context, src io.Reader, source string) (*Result, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	result := &Result{}
	seenRestaurants := make(map[string]bool)
	var pendingTexts []string
	var pendingIDs []string
	var pendingNames []string

	flush := func() error {
		if len(pendingTexts) == 0 {
			return nil
		}
		embeddings, err := in.embedder.EmbedBatch(ctx, pendingTexts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		if len(embeddings) != len(pendingTexts) {
			return fmt.Errorf("embed batch: got %d embeddings for %d texts", len(embeddings), len(pendingTexts))
		}
		for i, text := range pendingTexts {
			if err := in.store.UpsertReviewPassage(ctx, pendingIDs[i], text, pendingNames[i], source, embeddings[i]); err != nil {
				return fmt.Errorf("upsert passage %s: %w", pendingIDs[i], err)
			}
			result.Passages++
		}
		pendingTexts = pendingTexts[:0]
		pendingIDs = pendingIDs[:0]
		pendingNames = pendingNames[:0]
		return nil
	}

	for rowIdx := 0; ; rowIdx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowIdx, err)
		}

		r := row{fields: make(map[string]string, len(header))}
		for i, value := range record {
			if i < len(header) {
				r.fields[header[i]] = value
			}
		}
		result.Rows++

		name := r.get("Restaurant Name")
		if name == "" {
			continue
		}

		if !seenRestaurants[name] {
			seenRestaurants[name] = true
			if err := in.store.UpsertRestaurant(ctx, restaurantID(name), restaurantFromRow(r)); err != nil {
				return nil, fmt.Errorf("upsert restaurant %q: %w", name, err)
			}
			result.Restaurants++
		}

		text := formatRow(r)
		if text == "" {
			continue
		}

		for chunkIdx, chunk := range splitChunks(text, chunkWords) {
			pendingTexts = append(pendingTexts, chunk)
			pendingIDs = append(pendingIDs, fmt.Sprintf("%d-%d", rowIdx, chunkIdx))
			pendingNames = append(pendingNames, name)
			if len(pendingTexts) >= embedBatchSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	in.logger.Info("ingestion finished",
		"rows", result.Rows,
		"passages", result.Passages,
		"restaurants", result.Restaurants,
		"source", source)
	return result, nil
}

// formatRow builds the pipe-joined passage text. Empty fields are skipped.
func formatRow(r row) string {
	parts := []string{
		labeled("Restaurant", r.get("Restaurant Name")),
		labeled("Total Rating", r.get("Total Rating")),
		labeled("Average Price", r.get("Average Price")),
		labeled("Location", r.get("Restaurant Location")),
		labeled("Neighbourhood", r.get("Neighbourhood")),
		labeled("Hours", r.get("Hours of Operation")),
		labeled("Cuisine", r.get("Cuisine")),
		labeled("Tags", r.get("Tags")),
		labeled("Reviewer", r.get("Reviewer Name")),
		labeled("Reviewer Location", r.get("Reviewer Location")),
		rated("Overall Rating", r.get("Overall Rating")),
		rated("Food Rating", r.get("Food Rating")),
		rated("Service Rating", r.get("Service Rating")),
		rated("Ambience Rating", r.get("Ambience Rating")),
		labeled("Review Date", r.get("Review Date")),
		labeled("Review", r.get("Review Text")),
	}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

func labeled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func rated(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value + "/5"
}

// splitChunks splits text into word chunks of at most size words.
func splitChunks(text string, size int) []string {
	words := strings.Fields(text)
	var chunks []string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// restaurantID derives a stable record key from the restaurant name.
func restaurantID(name string) string {
	parts := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(parts, "_")
}

func restaurantFromRow(r row) models.Restaurant {
	return models.Restaurant{
		Name:             r.get("Restaurant Name"),
		TotalRating:      parseFloat(r.get("Total Rating")),
		AveragePrice:     r.get("Average Price"),
		Location:         r.get("Restaurant Location"),
		Neighbourhood:    r.get("Neighbourhood"),
		HoursOfOperation: r.get("Hours of Operation"),
		Cuisine:          r.get("Cuisine"),
		Tags:             r.get("Tags"),
		OverallRating:    parseFloat(r.get("Overall Rating")),
		FoodRating:       parseFloat(r.get("Food Rating")),
		ServiceRating:    parseFloat(r.get("Service Rating")),
		AmbienceRating:   parseFloat(r.get("Ambience Rating")),
		IsActive:         true,
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
