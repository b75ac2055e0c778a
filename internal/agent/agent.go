// Package agent implements the retrieval-augmented conversational assistant:
// per-session context assembly, tool routing with a bounded invocation budget,
// answer synthesis, and append-only conversation memory.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dinewise/dinewise/internal/llm"
	"github.com/dinewise/dinewise/internal/metrics"
)

const (
	// maxToolInvocations bounds tool calls per turn. Once spent, the model
	// must synthesize from what was gathered.
	maxToolInvocations = 3

	// retrievalTopK is the passage count requested per database search.
	retrievalTopK = 10

	// maxAnswerWords is the hard cap enforced after synthesis.
	maxAnswerWords = 500

	// nearbyCandidateLimit bounds the ranking injected for comparisons.
	nearbyCandidateLimit = 5
)

// Turn result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Texts substituted for tool output when a backend degrades. The model sees
// these as ordinary tool results and routes accordingly.
const (
	retrievalUnavailableText = "The restaurant database is currently unavailable. Try the general search instead."
	retrievalEmptyText       = "No matching information found in the restaurant database."
	fallbackUnavailableText  = "General search is currently unavailable."
	toolBudgetSpentText      = "Tool budget exhausted. Answer using the information gathered so far."
)

// TurnResult is the structured outcome of one conversation turn. Failures are
// carried in Status and Detail; a turn never surfaces a raw error.
type TurnResult struct {
	Answer      string  `json:"answer"`
	ElapsedTime float64 `json:"elapsed_time"`
	Status      string  `json:"status"`
	Detail      string  `json:"detail,omitempty"`
}

// Dependencies carries the collaborators an Assistant needs.
type Dependencies struct {
	Model     ChatModel
	Retriever Retriever
	Context   ContextFetcher
	Nearby    CandidateLister
	Logger    *slog.Logger
	Metrics   *metrics.Collector
}

// Assistant is one session's conversational agent. The restaurant context is
// resolved once at session start and reused for every turn. Safe for
// sequential use; callers serialize turns per session.
type Assistant struct {
	restaurantID string
	context      string
	memory       *Memory
	model        ChatModel
	retriever    Retriever
	nearby       CandidateLister
	logger       *slog.Logger
	metrics      *metrics.Collector
}

// New creates a session assistant, resolving the restaurant context up front.
// A missing or unresolvable restaurant degrades to the placeholder context
// rather than failing session creation.
func New(ctx context.Context, restaurantID string, deps Dependencies) *Assistant {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	restaurantContext := PlaceholderContext
	if restaurantID != "" && deps.Context != nil {
		restaurantContext = deps.Context.FetchRestaurantContext(ctx, restaurantID)
		if restaurantContext == "" {
			restaurantContext = PlaceholderContext
		}
	}

	return &Assistant{
		restaurantID: restaurantID,
		context:      restaurantContext,
		memory:       NewMemory(),
		model:        deps.Model,
		retriever:    deps.Retriever,
		nearby:       deps.Nearby,
		logger:       logger,
		metrics:      deps.Metrics,
	}
}

// Context returns the session's resolved restaurant context paragraph.
func (a *Assistant) Context() string {
	return a.context
}

// History returns the session's conversation turns in order.
func (a *Assistant) History() []Turn {
	return a.memory.Turns()
}

// ResetHistory clears the session's conversation memory.
func (a *Assistant) ResetHistory() {
	a.memory.Reset()
}

// ProcessTurn runs one full conversation turn: route, invoke tools within the
// budget, synthesize, remember. Always returns a structured result; internal
// failures become Status error with a generic answer.
func (a *Assistant) ProcessTurn(ctx context.Context, userText string) (result TurnResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("turn panicked", "restaurant_id", a.restaurantID, "panic", r)
			result = TurnResult{
				Answer:      genericFailureMessage,
				ElapsedTime: time.Since(start).Seconds(),
				Status:      StatusError,
				Detail:      fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	answer, err := a.runTurn(ctx, userText)
	elapsed := time.Since(start)

	if err != nil {
		a.logger.Error("turn failed",
			"restaurant_id", a.restaurantID,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err)
		return TurnResult{
			Answer:      genericFailureMessage,
			ElapsedTime: elapsed.Seconds(),
			Status:      StatusError,
			Detail:      err.Error(),
		}
	}

	answer = limitWords(answer, maxAnswerWords)

	// Memory records only completed turns, question then answer.
	a.memory.Append(TurnRoleUser, userText)
	a.memory.Append(TurnRoleAssistant, answer)

	a.logger.Info("turn completed",
		"restaurant_id", a.restaurantID,
		"elapsed_ms", elapsed.Milliseconds(),
		"history_len", a.memory.Len())

	return TurnResult{
		Answer:      answer,
		ElapsedTime: elapsed.Seconds(),
		Status:      StatusOK,
	}
}

// runTurn drives the route-invoke-synthesize loop for a single question.
func (a *Assistant) runTurn(ctx context.Context, userText string) (string, error) {
	msgs := a.buildMessages(ctx, userText)

	invocations := 0
	for {
		tools := toolSpecs()
		if invocations >= maxToolInvocations {
			// Budget spent: withdraw the tools so the model must answer.
			tools = nil
		}

		result, err := a.model.Chat(ctx, msgs, tools)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
		}

		if len(result.ToolCalls) == 0 {
			return result.Content, nil
		}

		if tools == nil {
			// The model asked for a tool it was not offered.
			return "", fmt.Errorf("%w: model requested tools after cutoff", ErrToolBudgetExceeded)
		}

		msgs = append(msgs, llm.ChatMessage{
			Role:      llm.RoleAssistant,
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})

		// Every requested call gets a tool response so the conversation stays
		// well-formed; calls past the budget are answered with a stub.
		for _, call := range result.ToolCalls {
			output := toolBudgetSpentText
			if invocations < maxToolInvocations {
				inv := a.invokeTool(ctx, call)
				invocations++
				output = inv.Output
			}
			msgs = append(msgs, llm.ChatMessage{
				Role:       llm.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}
}

// buildMessages assembles the synthesis input: system contract, prior turns,
// then the current question with its restaurant context.
func (a *Assistant) buildMessages(ctx context.Context, userText string) []llm.ChatMessage {
	history := a.memory.Turns()
	msgs := make([]llm.ChatMessage, 0, len(history)+2)

	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt})
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == TurnRoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.ChatMessage{Role: role, Content: turn.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleUser, Content: a.formatQuestion(ctx, userText)})

	return msgs
}

// invokeTool dispatches one model-requested tool call. Backend failures
// degrade into substitute tool output so the turn can continue.
func (a *Assistant) invokeTool(ctx context.Context, call llm.ToolCall) ToolInvocation {
	kind, err := ParseToolKind(call.Name)
	if err != nil {
		a.logger.Warn("rejected tool call", "tool", call.Name)
		return ToolInvocation{Kind: ToolUnknown, Output: fmt.Sprintf("Unknown tool %q.", call.Name)}
	}

	query := parseToolQuery(call.Arguments)
	start := time.Now()

	var output string
	switch kind {
	case ToolRetrieval:
		output = a.runRetrieval(ctx, query)
	case ToolFallback:
		output = a.runFallback(ctx, query)
	}

	elapsed := time.Since(start)
	if a.metrics != nil {
		op := metrics.OpRetrieval
		if kind == ToolFallback {
			op = metrics.OpFallback
		}
		a.metrics.RecordTiming(op, elapsed)
	}

	a.logger.Debug("tool invoked",
		"tool", kind.String(),
		"query_len", len(query),
		"elapsed_ms", elapsed.Milliseconds())

	return ToolInvocation{Kind: kind, Query: query, Output: output}
}

func (a *Assistant) runRetrieval(ctx context.Context, query string) string {
	passages, err := a.retriever.Retrieve(ctx, query, retrievalTopK)
	if err != nil {
		a.logger.Warn("retrieval degraded", "error", fmt.Errorf("%w: %v", ErrRetrievalFailure, err))
		return retrievalUnavailableText
	}
	if len(passages) == 0 {
		return retrievalEmptyText
	}
	return joinPassages(passages)
}

func (a *Assistant) runFallback(ctx context.Context, query string) string {
	prompt := fmt.Sprintf("Answer this question about UK restaurants:\n\n%s", query)
	answer, err := a.model.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("fallback degraded", "error", err)
		return fallbackUnavailableText
	}
	return answer
}

func joinPassages(passages []string) string {
	return strings.Join(passages, "\n")
}
