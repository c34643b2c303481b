package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/domain/repository"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerName = "gemini"

type client struct {
	genai   *genai.Client
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient создает бэкенд генерации на Gemini API
func NewClient(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (repository.GenerationRepository, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for gemini provider")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](cfg.Temperature),
	}
	if cfg.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}

	logger.Info("Gemini generation backend initialized",
		zap.String("model", cfg.Model),
		zap.Float32("temperature", cfg.Temperature),
		zap.Int("max_output_tokens", cfg.MaxOutputTokens))

	return &client{
		genai:   gc,
		model:   cfg.Model,
		config:  genCfg,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (c *client) Name() string {
	return providerName
}

// Generate - один запрос generateContent без повторов
func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		c.logger.Error("Gemini generation failed",
			zap.String("model", c.model),
			zap.Int("prompt_length", len(prompt)),
			zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	c.logger.Debug("Gemini generation completed",
		zap.String("model", c.model),
		zap.Int("response_length", len(text)),
		zap.Duration("duration", time.Since(start)))

	return text, nil
}
