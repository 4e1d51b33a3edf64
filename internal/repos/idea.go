package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type IdeaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ideas []*types.ProjectIdea) ([]*types.ProjectIdea, error)
	GetByID(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID) (*types.ProjectIdea, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ProjectIdea, error)
	List(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*types.ProjectIdea, error)
	ListApproved(ctx context.Context, tx *gorm.DB, excludeID *uuid.UUID) ([]*types.ProjectIdea, error)
	UpdateReview(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, status, feedback string, reviewedBy uuid.UUID, reviewedAt time.Time) (*types.ProjectIdea, error)
	UpdateUniquenessScore(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, score int) error
}

type ideaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdeaRepo(db *gorm.DB, baseLog *logger.Logger) IdeaRepo {
	return &ideaRepo{db: db, log: baseLog.With("repo", "IdeaRepo")}
}

func (ir *ideaRepo) Create(ctx context.Context, tx *gorm.DB, ideas []*types.ProjectIdea) ([]*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(ideas) == 0 {
		return []*types.ProjectIdea{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

func (ir *ideaRepo) GetByID(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID) (*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var idea types.ProjectIdea
	if err := transaction.WithContext(ctx).
		Where("id = ?", ideaID).
		First(&idea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &idea, nil
}

func (ir *ideaRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.ProjectIdea
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ideaRepo) List(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	q := transaction.WithContext(ctx).Order("submitted_at DESC")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	var results []*types.ProjectIdea
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ideaRepo) ListApproved(ctx context.Context, tx *gorm.DB, excludeID *uuid.UUID) ([]*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	q := transaction.WithContext(ctx).Where("status = ?", types.IdeaStatusApproved)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var results []*types.ProjectIdea
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ideaRepo) UpdateReview(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, status, feedback string, reviewedBy uuid.UUID, reviewedAt time.Time) (*types.ProjectIdea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	updates := map[string]interface{}{
		"status":      status,
		"feedback":    feedback,
		"reviewed_at": reviewedAt,
		"reviewed_by": reviewedBy,
	}
	if err := transaction.WithContext(ctx).
		Model(&types.ProjectIdea{}).
		Where("id = ?", ideaID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return ir.GetByID(ctx, transaction, ideaID)
}

func (ir *ideaRepo) UpdateUniquenessScore(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, score int) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ProjectIdea{}).
		Where("id = ?", ideaID).
		Update("uniqueness_score", score).Error
}
