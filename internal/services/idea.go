package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/repos"
	"github.com/sparklab/ideahub-backend/internal/types"
)

// IdeaDraft is the student submission payload. Interest and language lists
// arrive as comma-separated strings and are split server-side.
type IdeaDraft struct {
	Title           string
	Description     string
	AreasOfInterest string
	DomainInterest  string
	LanguagesKnown  string
	AdditionalInfo  string
}

// ReviewDecision is the staff verdict applied to a pending idea.
type ReviewDecision struct {
	IdeaID   uuid.UUID
	Status   string
	Feedback string
}

// StudentSummary is the slice of student identity joined onto staff idea
// listings.
type StudentSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StaffIdeaView struct {
	types.ProjectIdea
	Student *StudentSummary `json:"student"`
}

// CheckResult is the staff-triggered recheck of one idea.
type CheckResult struct {
	SimilarityScore int  `json:"similarityScore"`
	UniquenessScore int  `json:"uniquenessScore"`
	IsUnique        bool `json:"isUnique"`
}

type IdeaService interface {
	Submit(ctx context.Context, studentID uuid.UUID, draft IdeaDraft) (*types.ProjectIdea, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ProjectIdea, error)
	ListAll(ctx context.Context, statusFilter string) ([]StaffIdeaView, error)
	CheckSimilarity(ctx context.Context, ideaID uuid.UUID) (CheckResult, error)
	Review(ctx context.Context, staffID uuid.UUID, decision ReviewDecision) (*types.ProjectIdea, error)
}

type ideaService struct {
	db           *gorm.DB
	log          *logger.Logger
	ideaRepo     repos.IdeaRepo
	userRepo     repos.UserRepo
	feedbackRepo repos.FeedbackRepo
	similarity   SimilarityService
	titleLocks   keyedMutex
}

func NewIdeaService(
	db *gorm.DB,
	log *logger.Logger,
	ideaRepo repos.IdeaRepo,
	userRepo repos.UserRepo,
	feedbackRepo repos.FeedbackRepo,
	similarity SimilarityService,
) IdeaService {
	return &ideaService{
		db:           db,
		log:          log.With("service", "IdeaService"),
		ideaRepo:     ideaRepo,
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		similarity:   similarity,
		titleLocks:   keyedMutex{locks: map[string]*lockEntry{}},
	}
}

// Submit runs the uniqueness check and persists the idea as pending.
// Concurrent submissions sharing a normalized title are serialized so two
// near-simultaneous copies cannot both pass the check against a corpus that
// contains neither.
func (is *ideaService) Submit(ctx context.Context, studentID uuid.UUID, draft IdeaDraft) (*types.ProjectIdea, error) {
	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", apperr.ErrInvalidArgument)
	}

	lockKey := strings.ToLower(title)
	entry := is.titleLocks.lock(lockKey)
	defer is.titleLocks.unlock(lockKey, entry)

	users, err := is.userRepo.GetByIDs(ctx, nil, []uuid.UUID{studentID})
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, studentID)
	}

	check, err := is.similarity.CheckUniqueness(ctx, title, description)
	if err != nil {
		return nil, err
	}
	if !check.IsUnique {
		return nil, fmt.Errorf("%w: please try a different approach", apperr.ErrTooSimilar)
	}

	score := 100 - check.SimilarityScore
	idea := &types.ProjectIdea{
		ID:              uuid.New(),
		Title:           title,
		Description:     description,
		StudentID:       studentID,
		AreasOfInterest: datatypes.NewJSONSlice(splitCSV(draft.AreasOfInterest)),
		DomainInterest:  strings.TrimSpace(draft.DomainInterest),
		LanguagesKnown:  datatypes.NewJSONSlice(splitCSV(draft.LanguagesKnown)),
		AdditionalInfo:  strings.TrimSpace(draft.AdditionalInfo),
		Status:          types.IdeaStatusPending,
		IsUnique:        true,
		UniquenessScore: &score,
		SubmittedAt:     time.Now(),
	}
	if _, err := is.ideaRepo.Create(ctx, nil, []*types.ProjectIdea{idea}); err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	is.log.Info("Idea submitted", "idea_id", idea.ID, "student_id", studentID, "uniqueness_score", score)
	return idea, nil
}

func (is *ideaService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.ProjectIdea, error) {
	return is.ideaRepo.ListByStudent(ctx, nil, studentID)
}

// ListAll returns every idea (optionally filtered by status) with the owning
// student's name and email joined in via one batched user fetch.
func (is *ideaService) ListAll(ctx context.Context, statusFilter string) ([]StaffIdeaView, error) {
	if statusFilter != "" && statusFilter != types.IdeaStatusPending && !types.ValidIdeaStatus(statusFilter) {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidArgument, statusFilter)
	}
	ideas, err := is.ideaRepo.List(ctx, nil, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	studentIDs := make([]uuid.UUID, 0, len(ideas))
	seen := map[uuid.UUID]bool{}
	for _, idea := range ideas {
		if !seen[idea.StudentID] {
			seen[idea.StudentID] = true
			studentIDs = append(studentIDs, idea.StudentID)
		}
	}
	students, err := is.userRepo.GetByIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	byID := make(map[uuid.UUID]*types.User, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	views := make([]StaffIdeaView, 0, len(ideas))
	for _, idea := range ideas {
		view := StaffIdeaView{ProjectIdea: *idea}
		if s := byID[idea.StudentID]; s != nil {
			view.Student = &StudentSummary{Name: s.Name, Email: s.Email}
		}
		views = append(views, view)
	}
	return views, nil
}

// CheckSimilarity recomputes the uniqueness verdict for a stored idea and
// persists the refreshed uniqueness score.
func (is *ideaService) CheckSimilarity(ctx context.Context, ideaID uuid.UUID) (CheckResult, error) {
	idea, err := is.ideaRepo.GetByID(ctx, nil, ideaID)
	if err != nil {
		return CheckResult{}, fmt.Errorf("load idea: %w", err)
	}
	if idea == nil {
		return CheckResult{}, fmt.Errorf("%w: project idea %s", apperr.ErrNotFound, ideaID)
	}
	check, err := is.similarity.CheckUniqueness(ctx, idea.Title, idea.Description)
	if err != nil {
		return CheckResult{}, err
	}
	uniqueness := 100 - check.SimilarityScore
	if err := is.ideaRepo.UpdateUniquenessScore(ctx, nil, ideaID, uniqueness); err != nil {
		return CheckResult{}, fmt.Errorf("persist uniqueness score: %w", err)
	}
	return CheckResult{
		SimilarityScore: check.SimilarityScore,
		UniquenessScore: uniqueness,
		IsUnique:        check.IsUnique,
	}, nil
}

// Review applies a staff verdict. The idea update and the feedback record
// are written in one transaction so a failure leaves neither behind.
func (is *ideaService) Review(ctx context.Context, staffID uuid.UUID, decision ReviewDecision) (*types.ProjectIdea, error) {
	if decision.IdeaID == uuid.Nil {
		return nil, fmt.Errorf("%w: idea id is required", apperr.ErrInvalidArgument)
	}
	if !types.ValidIdeaStatus(decision.Status) {
		return nil, fmt.Errorf("%w: status must be %q or %q", apperr.ErrInvalidArgument, types.IdeaStatusApproved, types.IdeaStatusRejected)
	}

	var updated *types.ProjectIdea
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idea, err := is.ideaRepo.GetByID(ctx, tx, decision.IdeaID)
		if err != nil {
			return fmt.Errorf("load idea: %w", err)
		}
		if idea == nil {
			return fmt.Errorf("%w: project idea %s", apperr.ErrNotFound, decision.IdeaID)
		}
		if idea.Status != types.IdeaStatusPending {
			return fmt.Errorf("%w: idea already %s", apperr.ErrInvalidArgument, idea.Status)
		}

		now := time.Now()
		updated, err = is.ideaRepo.UpdateReview(ctx, tx, decision.IdeaID, decision.Status, decision.Feedback, staffID, now)
		if err != nil {
			return fmt.Errorf("update idea: %w", err)
		}
		if strings.TrimSpace(decision.Feedback) != "" {
			record := &types.Feedback{
				ID:        uuid.New(),
				IdeaID:    decision.IdeaID,
				StaffID:   staffID,
				Content:   decision.Feedback,
				CreatedAt: now,
			}
			if _, err := is.feedbackRepo.Create(ctx, tx, []*types.Feedback{record}); err != nil {
				return fmt.Errorf("create feedback record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	is.log.Info("Idea reviewed", "idea_id", decision.IdeaID, "status", decision.Status, "staff_id", staffID)
	return updated, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// keyedMutex serializes work per key. Entries are refcounted and removed
// once the last holder releases, so the map stays bounded by in-flight
// submissions.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (km *keyedMutex) lock(key string) *lockEntry {
	km.mu.Lock()
	entry := km.locks[key]
	if entry == nil {
		entry = &lockEntry{}
		km.locks[key] = entry
	}
	entry.refs++
	km.mu.Unlock()
	entry.mu.Lock()
	return entry
}

func (km *keyedMutex) unlock(key string, entry *lockEntry) {
	entry.mu.Unlock()
	km.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()
}
