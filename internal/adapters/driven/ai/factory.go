// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/paralog-labs/paralog-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/paralog-labs/paralog-cli/internal/adapters/driven/embedding/openai"
	anthropicgw "github.com/paralog-labs/paralog-cli/internal/adapters/driven/gateway/anthropic"
	ollamagw "github.com/paralog-labs/paralog-cli/internal/adapters/driven/gateway/ollama"
	openaigw "github.com/paralog-labs/paralog-cli/internal/adapters/driven/gateway/openai"
	"github.com/paralog-labs/paralog-cli/internal/core/domain"
	"github.com/paralog-labs/paralog-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateLLMGateway creates an LLM gateway and validates connectivity.
// Returns nil (not an error) when the provider is not configured at all, so
// callers can surface domain.ErrLLMUnavailable only when the gateway is needed.
func CreateAndValidateLLMGateway(settings *domain.LLMSettings) (driven.LLMGateway, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	gw, err := CreateLLMGateway(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paralog settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := gw.Ping(ctx); err != nil {
		gw.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paralog settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return gw, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates
// connectivity. Returns nil when the provider is not configured.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paralog settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paralog settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateLLMGateway creates the appropriate LLM gateway based on settings.
func CreateLLMGateway(settings *domain.LLMSettings) (driven.LLMGateway, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaigw.New(openaigw.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicgw.New(anthropicgw.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamagw.New(ollamagw.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.New(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderOllama:
		return ollamaembed.New(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not offer an embeddings endpoint.
		return nil, fmt.Errorf("anthropic does not support embeddings, use openai or ollama")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}
