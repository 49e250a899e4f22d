package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/geoadvisor/backend/internal/config"
	"github.com/geoadvisor/backend/internal/model/account"
)

// Request carries one completion call: the new user message plus the
// session's transient history and the generation parameters picked in the
// UI.
type Request struct {
	Model       string
	Temperature float64
	MaxTokens   int
	History     []account.MessageExchange
	Message     string
}

// Service relays assembled conversations to the hosted completion API.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the completion client and compiles the prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// StreamingEnabled indicates whether SSE/websocket handlers should stream
// completion chunks instead of waiting for the full reply.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Complete runs one synchronous completion and returns the assistant text.
// The caller blocks until the service replies or fails; there is no retry.
func (s *Service) Complete(ctx context.Context, req Request) (string, error) {
	response, err := s.chain.Invoke(ctx, chainInput(req), requestOptions(req)...)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	log.Printf("[ai] completed response model=%s length=%d", req.Model, len(response.Content))
	return response.Content, nil
}

// StreamCompletion streams completion chunks via the compiled chain.
func (s *Service) StreamCompletion(ctx context.Context, req Request) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, chainInput(req), requestOptions(req)...)
	if err != nil {
		return nil, fmt.Errorf("failed to stream completion output: %w", err)
	}
	return stream, nil
}

// chainInput assembles the prompt: fixed system instruction, then a
// user/assistant turn pair per stored exchange in order, then the new user
// turn.
func chainInput(req Request) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": historyMessages(req.History),
		"query":   req.Message,
	}
}

func historyMessages(history []account.MessageExchange) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history)*2)
	for _, exchange := range history {
		messages = append(messages, schema.UserMessage(exchange.UserText))
		messages = append(messages, schema.AssistantMessage(exchange.AssistantText, nil))
	}
	return messages
}

// requestOptions forwards the per-request model and generation parameters
// to the chat model node. The model identifier is passed through verbatim.
func requestOptions(req Request) []compose.Option {
	opts := make([]model.Option, 0, 3)
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	return []compose.Option{compose.WithChatModelOption(opts...)}
}
