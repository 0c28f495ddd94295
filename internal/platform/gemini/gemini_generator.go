package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/essaylab-api/internal/config"
	"github.com/phrazzld/essaylab-api/internal/generation"
	"github.com/phrazzld/essaylab-api/internal/platform/keypool"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"google.golang.org/genai"
)

//go:embed prompts/vocabulary.tmpl
var vocabularyPrompt string

// modelsAPI is the subset of *genai.Models used by the generator.
type modelsAPI interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

type promptData struct {
	EssayText string
}

// GeminiGenerator implements generation.Generator.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	pool           *keypool.Pool
	clients        map[string]modelsAPI
	sleep          func(ctx context.Context, d time.Duration) error
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates one Gemini client per key in pool.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	pool *keypool.Pool,
) (*GeminiGenerator, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: key pool cannot be nil", generation.ErrInvalidConfig)
	}

	clients := make(map[string]modelsAPI, pool.Size())
	for i := 0; i < pool.Size(); i++ {
		key := pool.Next()
		if _, ok := clients[key]; ok {
			continue
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
				generation.ErrInvalidConfig, err)
		}
		clients[key] = client.Models
	}

	return newGenerator(logger, cfg, pool, clients)
}

func newGenerator(
	logger *slog.Logger,
	cfg config.LLMConfig,
	pool *keypool.Pool,
	clients map[string]modelsAPI,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := template.New("vocabulary").Parse(vocabularyPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: tmpl,
		pool:           pool,
		clients:        clients,
		sleep:          sleepContext,
	}, nil
}

// GenerateVocabulary implements generation.Generator.
func (g *GeminiGenerator) GenerateVocabulary(
	ctx context.Context,
	essayText string,
) ([]generation.VocabularyEntry, error) {
	prompt, err := g.createPrompt(essayText)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	resp, err := generation.ParseVocabularyResponse([]byte(raw))
	if err != nil {
		return nil, err
	}
	return resp.Vocabulary, nil
}

func (g *GeminiGenerator) createPrompt(essayText string) (string, error) {
	essayText = strings.TrimSpace(essayText)
	if essayText == "" {
		return "", generation.ErrEmptyText
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{EssayText: essayText}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry returns the text of the first usable candidate. Each attempt
// uses the next key from the pool.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		text, err := g.call(ctx, prompt)
		if err == nil {
			log.Debug("Gemini API call successful", slog.Int("attempt", attempt+1))
			return text, nil
		}

		log.Warn("Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !isTransient(err) {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5) * float64(time.Second))

		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	key := g.pool.Next()
	client, ok := g.clients[key]
	if !ok {
		return "", ErrNoClient
	}

	resp, err := client.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return "", err
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return text.String(), nil
}

// isTransient reports whether err is worth another attempt. Content and
// request errors are permanent, as are 4xx API errors other than 429.
func isTransient(err error) bool {
	if errors.Is(err, generation.ErrContentBlocked) ||
		errors.Is(err, generation.ErrInvalidResponse) ||
		errors.Is(err, ErrNoClient) ||
		errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
