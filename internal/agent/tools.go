package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dinewise/dinewise/internal/llm"
)

// ToolKind is the closed set of tools the router can dispatch to. The model's
// structured tool-selection output is parsed into this enum; free-form names
// are rejected rather than dispatched.
type ToolKind int

const (
	ToolUnknown ToolKind = iota
	ToolRetrieval
	ToolFallback
)

// Wire names advertised to the model.
const (
	toolNameRetrieval = "restaurant_database"
	toolNameFallback  = "general_search"
)

// ParseToolKind maps a model-chosen tool name onto the closed enum.
func ParseToolKind(name string) (ToolKind, error) {
	switch name {
	case toolNameRetrieval:
		return ToolRetrieval, nil
	case toolNameFallback:
		return ToolFallback, nil
	default:
		return ToolUnknown, fmt.Errorf("unknown tool %q", name)
	}
}

// String returns the wire name of the tool kind.
func (k ToolKind) String() string {
	switch k {
	case ToolRetrieval:
		return toolNameRetrieval
	case ToolFallback:
		return toolNameFallback
	default:
		return "unknown"
	}
}

// ToolInvocation records one executed tool call within a turn. Used for the
// invocation bound and logging; not persisted beyond the turn.
type ToolInvocation struct {
	Kind   ToolKind
	Query  string
	Output string
}

// Retriever searches the review corpus and returns the top-k passages ranked
// by similarity descending. May return an empty slice.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// ChatModel is the language-model backend consumed by the agent.
type ChatModel interface {
	Chat(ctx context.Context, msgs []llm.ChatMessage, tools []llm.ToolSpec) (llm.ChatResult, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

// toolSpecs describes both tools to the model. The descriptions carry the
// priority order: database first, general search strictly as backup.
func toolSpecs() []llm.ToolSpec {
	queryParams := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query text",
			},
		},
		"required": []string{"query"},
	}

	return []llm.ToolSpec{
		{
			Name: toolNameRetrieval,
			Description: "Use this tool first to search the verified UK restaurant database. " +
				"It provides detailed restaurant information, including reviews, ratings, popular dishes, " +
				"and location details. Always check this database before considering other sources.",
			Parameters: queryParams,
		},
		{
			Name: toolNameFallback,
			Description: "Use this tool only if the restaurant database lacks sufficient information. " +
				"It helps find recent reviews, current status, or additional details about UK restaurants.",
			Parameters: queryParams,
		},
	}
}

// parseToolQuery extracts the query from JSON tool-call arguments, falling
// back to the raw argument string when it is not well-formed JSON.
func parseToolQuery(arguments string) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.Query != "" {
		return args.Query
	}
	return arguments
}
