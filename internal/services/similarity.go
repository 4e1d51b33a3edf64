package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sparklab/ideahub-backend/internal/ai"
	"github.com/sparklab/ideahub-backend/internal/clients/gemini"
	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/repos"
)

// UniquenessResult is the verdict for one idea against the approved corpus.
type UniquenessResult struct {
	IsUnique        bool `json:"isUnique"`
	SimilarityScore int  `json:"similarityScore"`
}

// SimilarityDetails is the staff-facing ranked view. Ephemeral: recomputed
// on every request, never cached.
type SimilarityDetails struct {
	SimilarityScore  int             `json:"similarityScore"`
	MostSimilarIdeas []ai.RankedIdea `json:"mostSimilarIdeas"`
}

type SimilarityService interface {
	CheckUniqueness(ctx context.Context, title, description string) (UniquenessResult, error)
	Details(ctx context.Context, ideaID uuid.UUID) (SimilarityDetails, error)
}

type similarityService struct {
	log          *logger.Logger
	ideaRepo     repos.IdeaRepo
	client       gemini.Client
	model        string
	rankingModel string
}

func NewSimilarityService(log *logger.Logger, ideaRepo repos.IdeaRepo, client gemini.Client, model, rankingModel string) SimilarityService {
	return &similarityService{
		log:          log.With("service", "SimilarityService"),
		ideaRepo:     ideaRepo,
		client:       client,
		model:        model,
		rankingModel: rankingModel,
	}
}

// CheckUniqueness compares a title/description pair against every approved
// idea. An empty corpus short-circuits to unique with similarity 0 and no
// completion call.
func (ss *similarityService) CheckUniqueness(ctx context.Context, title, description string) (UniquenessResult, error) {
	approved, err := ss.ideaRepo.ListApproved(ctx, nil, nil)
	if err != nil {
		return UniquenessResult{}, fmt.Errorf("load approved ideas: %w", err)
	}
	if len(approved) == 0 {
		return UniquenessResult{IsUnique: true, SimilarityScore: 0}, nil
	}

	existing := make([]ai.IdeaSummary, 0, len(approved))
	for _, idea := range approved {
		existing = append(existing, ai.IdeaSummary{Title: idea.Title, Description: idea.Description})
	}
	prompt := ai.BuildUniquenessPrompt(title, description, existing)
	text, err := ss.client.Complete(ctx, ss.model, prompt)
	if err != nil {
		return UniquenessResult{}, err
	}
	signal := ai.ParseUniqueness(text)
	return UniquenessResult{IsUnique: signal.IsUnique, SimilarityScore: signal.SimilarityScore}, nil
}

// Details ranks every other approved idea against the subject and returns
// the highest score plus the top three matches.
func (ss *similarityService) Details(ctx context.Context, ideaID uuid.UUID) (SimilarityDetails, error) {
	idea, err := ss.ideaRepo.GetByID(ctx, nil, ideaID)
	if err != nil {
		return SimilarityDetails{}, fmt.Errorf("load idea: %w", err)
	}
	if idea == nil {
		return SimilarityDetails{}, fmt.Errorf("%w: project idea %s", apperr.ErrNotFound, ideaID)
	}

	approved, err := ss.ideaRepo.ListApproved(ctx, nil, &ideaID)
	if err != nil {
		return SimilarityDetails{}, fmt.Errorf("load approved ideas: %w", err)
	}
	if len(approved) == 0 {
		return SimilarityDetails{MostSimilarIdeas: []ai.RankedIdea{}}, nil
	}

	summaries := make([]ai.IdeaSummary, 0, len(approved))
	candidates := make([]ai.Candidate, 0, len(approved))
	for _, other := range approved {
		summaries = append(summaries, ai.IdeaSummary{Title: other.Title, Description: other.Description})
		candidates = append(candidates, ai.Candidate{ID: other.ID, Title: other.Title})
	}

	prompt := ai.BuildRankingPrompt(ai.IdeaSummary{Title: idea.Title, Description: idea.Description}, summaries)
	text, err := ss.client.Complete(ctx, ss.rankingModel, prompt)
	if err != nil {
		return SimilarityDetails{}, err
	}

	ranked := ai.Rank(ai.ParseRanking(text, candidates))
	return SimilarityDetails{
		SimilarityScore:  ranked.Highest,
		MostSimilarIdeas: ranked.Top3,
	}, nil
}
