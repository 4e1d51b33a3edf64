package services

import (
	"context"
	"fmt"

	"github.com/sparklab/ideahub-backend/internal/ai"
	"github.com/sparklab/ideahub-backend/internal/clients/gemini"
	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
)

// GenerationService turns a student's brief into project-idea markdown via
// a single completion call.
type GenerationService interface {
	GenerateIdea(ctx context.Context, input ai.GenerationInput) (string, error)
}

type generationService struct {
	log    *logger.Logger
	client gemini.Client
	model  string
}

func NewGenerationService(log *logger.Logger, client gemini.Client, model string) GenerationService {
	return &generationService{
		log:    log.With("service", "GenerationService"),
		client: client,
		model:  model,
	}
}

func (gs *generationService) GenerateIdea(ctx context.Context, input ai.GenerationInput) (string, error) {
	if input.AreasOfInterest == "" || input.DomainInterest == "" || input.LanguagesKnown == "" {
		return "", fmt.Errorf("%w: areas of interest, domain interest, and programming languages are required", apperr.ErrInvalidArgument)
	}
	prompt := ai.BuildIdeaPrompt(input)
	text, err := gs.client.Complete(ctx, gs.model, prompt)
	if err != nil {
		gs.log.Warn("Idea generation failed", "error", err)
		return "", err
	}
	return text, nil
}
