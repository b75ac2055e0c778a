// Package llm provides chat-model and embedding services using langchaingo.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dinewise/dinewise/internal/config"
	"github.com/dinewise/dinewise/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatMessage is one message in a conversation.
// Assistant messages may carry ToolCalls; tool messages carry the result of
// one call identified by ToolCallID.
type ChatMessage struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// ToolSpec describes a callable tool advertised to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChatResult is the model's reply: either final content or tool calls.
type ChatResult struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
}

// GenerateOptions are the sampling parameters applied to every call.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Model wraps a langchaingo LLM with fixed sampling parameters.
type Model struct {
	llm       llms.Model
	modelName string
	opts      GenerateOptions
	metrics   *metrics.Collector
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		opts: GenerateOptions{
			Temperature: cfg.ChatTemperature,
			TopP:        cfg.ChatTopP,
			MaxTokens:   cfg.ChatMaxTokens,
		},
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// SetMetrics attaches a collector; each generation then records its duration
// and token usage.
func (m *Model) SetMetrics(c *metrics.Collector) {
	m.metrics = c
}

// Chat sends the conversation to the model. When tools is non-empty the model
// may answer with structured tool calls instead of content.
func (m *Model) Chat(ctx context.Context, msgs []ChatMessage, tools []ToolSpec) (ChatResult, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, msg := range msgs {
		content = append(content, toMessageContent(msg))
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(m.opts.Temperature),
		llms.WithTopP(m.opts.TopP),
		llms.WithMaxTokens(m.opts.MaxTokens),
	}
	if len(tools) > 0 {
		callOpts = append(callOpts, llms.WithTools(toLLMTools(tools)))
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, content, callOpts...)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("chat generation failed", "model", m.modelName,
			"duration_ms", duration.Milliseconds(), "error", err)
		return ChatResult{}, fmt.Errorf("generate content: %w", err)
	}
	if len(response.Choices) == 0 {
		return ChatResult{}, fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	if m.metrics != nil {
		input, output := tokenUsage(choice.GenerationInfo)
		m.metrics.RecordLLMUsage(metrics.OpGeneration, duration, input, output)
	}

	result := ChatResult{
		Content:    choice.Content,
		StopReason: choice.StopReason,
	}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}

	slog.Debug("chat generation complete", "model", m.modelName,
		"duration_ms", duration.Milliseconds(), "tool_calls", len(result.ToolCalls))
	return result, nil
}

// Complete generates an open-domain completion for a single prompt with no
// tools and no grounding context.
func (m *Model) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt,
		llms.WithTemperature(m.opts.Temperature),
		llms.WithTopP(m.opts.TopP),
		llms.WithMaxTokens(m.opts.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return response, nil
}

func toMessageContent(msg ChatMessage) llms.MessageContent {
	switch msg.Role {
	case RoleSystem:
		return llms.TextParts(llms.ChatMessageTypeSystem, msg.Content)

	case RoleAssistant:
		mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		if msg.Content != "" {
			mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			mc.Parts = append(mc.Parts, llms.ToolCall{
				ID:   tc.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		return mc

	case RoleTool:
		return llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.ToolName,
					Content:    msg.Content,
				},
			},
		}

	default:
		return llms.TextParts(llms.ChatMessageTypeHuman, msg.Content)
	}
}

// tokenUsage extracts prompt and completion token counts from a provider's
// generation info. OpenAI and Ollama report PromptTokens/CompletionTokens,
// Anthropic reports InputTokens/OutputTokens.
func tokenUsage(info map[string]any) (input, output int64) {
	return infoInt(info, "PromptTokens", "InputTokens"),
		infoInt(info, "CompletionTokens", "OutputTokens")
}

func infoInt(info map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}

func toLLMTools(tools []ToolSpec) []llms.Tool {
	out := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}
