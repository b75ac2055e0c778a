package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dinewise/dinewise/internal/agent"
	"github.com/dinewise/dinewise/internal/metrics"
)

// session binds one user's assistant to a mutex that serializes whole turns.
type session struct {
	mu        sync.Mutex
	assistant *agent.Assistant
}

// ChatService manages per-user chat sessions. Each user gets an isolated
// assistant with its own memory; concurrent messages from the same user are
// processed one turn at a time.
type ChatService struct {
	mu       sync.Mutex
	sessions map[string]*session

	model     agent.ChatModel
	retriever agent.Retriever
	context   agent.ContextFetcher
	nearby    agent.CandidateLister
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewChatService creates the session manager.
func NewChatService(model agent.ChatModel, retriever agent.Retriever, contextFetcher agent.ContextFetcher, nearby agent.CandidateLister, collector *metrics.Collector, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		sessions:  make(map[string]*session),
		model:     model,
		retriever: retriever,
		context:   contextFetcher,
		nearby:    nearby,
		metrics:   collector,
		logger:    logger,
	}
}

// StartChat creates a fresh session for the user, replacing any existing one
// and discarding its history.
func (s *ChatService) StartChat(ctx context.Context, email, restaurantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[email] = &session{assistant: s.newAssistant(ctx, restaurantID)}
	s.logger.Info("chat session started", "email", email, "restaurant_id", restaurantID)
}

// SendMessage processes one conversation turn for the user, creating a
// session on first use. Turns within a session run strictly one at a time.
func (s *ChatService) SendMessage(ctx context.Context, email, restaurantID, message string) agent.TurnResult {
	sess := s.getOrCreate(ctx, email, restaurantID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.assistant.ProcessTurn(ctx, message)
}

// History returns the user's conversation turns in order. A user without a
// session has an empty history.
func (s *ChatService) History(email string) []agent.Turn {
	s.mu.Lock()
	sess, ok := s.sessions[email]
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.assistant.History()
}

func (s *ChatService) getOrCreate(ctx context.Context, email, restaurantID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[email]; ok {
		return sess
	}
	sess := &session{assistant: s.newAssistant(ctx, restaurantID)}
	s.sessions[email] = sess
	return sess
}

func (s *ChatService) newAssistant(ctx context.Context, restaurantID string) *agent.Assistant {
	return agent.New(ctx, restaurantID, agent.Dependencies{
		Model:     s.model,
		Retriever: s.retriever,
		Context:   s.context,
		Nearby:    s.nearby,
		Logger:    s.logger,
		Metrics:   s.metrics,
	})
}
