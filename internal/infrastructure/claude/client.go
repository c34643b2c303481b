package claude

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	providerName     = "claude"
	defaultMaxTokens = 2048
)

type client struct {
	anthropic   anthropic.Client
	model       string
	maxTokens   int64
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient создает бэкенд генерации на Anthropic Messages API
func NewClient(cfg *config.LLMConfig, logger *zap.Logger) (repository.GenerationRepository, error) {
	if cfg.ClaudeAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for claude provider")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.ClaudeAPIKey),
		// один запрос на генерацию, повторы не нужны
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := int64(cfg.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	logger.Info("Claude generation backend initialized",
		zap.String("model", cfg.Model),
		zap.Float32("temperature", cfg.Temperature),
		zap.Int64("max_tokens", maxTokens))

	return &client{
		anthropic:   anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

func (c *client) Name() string {
	return providerName
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.temperature))
	}

	start := time.Now()
	resp, err := c.anthropic.Messages.New(ctx, params)
	if err != nil {
		c.logger.Error("Claude generation failed",
			zap.String("model", c.model),
			zap.Int("prompt_length", len(prompt)),
			zap.Error(err))
		return "", fmt.Errorf("claude messages API: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("claude returned empty response")
	}

	c.logger.Debug("Claude generation completed",
		zap.String("model", c.model),
		zap.Int("response_length", text.Len()),
		zap.String("stop_reason", string(resp.StopReason)),
		zap.Duration("duration", time.Since(start)))

	return text.String(), nil
}
