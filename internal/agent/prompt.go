package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dinewise/dinewise/internal/models"
)

// systemPrompt is the fixed behavioural contract for every synthesis call.
const systemPrompt = `You are a UK restaurant information specialist with access to two tools:
1. A verified restaurant database (primary source)
2. A general search capability (backup source)

Follow these steps strictly for EVERY query:

1. Always check the verified restaurant database first for information.
2. Use a general search only if the database lacks sufficient details.
3. Combine both sources seamlessly (without mentioning them).
4. Stick strictly to the user's query (do not add extra details).
5. Summarize key points from multiple reviews where possible.

Guidelines:
- Only provide information about UK restaurants (never include restaurants outside the UK).
- Respond ONLY to the question asked (do not include extra restaurant details if they are not relevant).
- Never mention ambiance, decor, or service unless explicitly asked.
- If information is unclear or unavailable, acknowledge it.
- If asked about a specific restaurant, first check its available menu, popular dishes, or customer preferences.
- If the user asks about comparison, rank the nearby candidates by overall rating.
- Keep responses under 500 words while maintaining quality and detail.

Formatting guidelines:
- Use natural paragraph formatting with proper spacing for clarity.
- Use bullet points for key information.
- Avoid markup symbols like # and **.

Important note:
NEVER mention which tool or source provided the information.`

// PlaceholderContext is returned when no restaurant record backs the session.
const PlaceholderContext = "No specific restaurant context available."

// genericFailureMessage is the user-facing answer for non-recoverable failures.
const genericFailureMessage = "Error processing your request"

// ContextFetcher resolves a restaurant identifier into an identity paragraph.
// Implementations never return an error; lookup failures degrade to
// PlaceholderContext.
type ContextFetcher interface {
	FetchRestaurantContext(ctx context.Context, restaurantID string) string
}

// CandidateLister lists nearby restaurants ranked for comparison questions.
type CandidateLister interface {
	NearbyRanked(ctx context.Context, restaurantID string, limit int) ([]models.RestaurantRanking, error)
}

// comparisonMarkers identify questions that ask to rank or compare venues.
var comparisonMarkers = []string{
	"which is better",
	"which one is better",
	"better than",
	"compare",
	"versus",
	" vs ",
}

func isComparisonQuery(query string) bool {
	q := strings.ToLower(query)
	for _, marker := range comparisonMarkers {
		if strings.Contains(q, marker) {
			return true
		}
	}
	return false
}

// formatQuestion prefixes the user question with the session's restaurant
// context. Comparison questions additionally get a deterministic ranking of
// nearby candidates: overall rating descending, ties broken alphabetically.
func (a *Assistant) formatQuestion(ctx context.Context, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following questions are about this restaurant:\n%s\n\nUser question:\n%s",
		a.context, query)

	if isComparisonQuery(query) && a.nearby != nil {
		candidates, err := a.nearby.NearbyRanked(ctx, a.restaurantID, nearbyCandidateLimit)
		if err != nil {
			a.logger.Warn("nearby ranking unavailable", "restaurant_id", a.restaurantID, "error", err)
		} else if len(candidates) > 0 {
			sortCandidates(candidates)
			b.WriteString("\n\nNearby restaurants ranked by overall rating:")
			for i, c := range candidates {
				fmt.Fprintf(&b, "\n%d. %s - %.1f/5", i+1, c.Name, c.OverallRating)
			}
		}
	}

	return b.String()
}

// sortCandidates enforces the ranking contract regardless of store ordering:
// overall rating descending, then name ascending.
func sortCandidates(candidates []models.RestaurantRanking) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].OverallRating != candidates[j].OverallRating {
			return candidates[i].OverallRating > candidates[j].OverallRating
		}
		return candidates[i].Name < candidates[j].Name
	})
}

// limitWords truncates text to at most max words. The prompt and token ceiling
// keep answers short; this is the hard cap.
func limitWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ")
}
