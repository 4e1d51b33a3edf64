package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.Feedback) ([]*types.Feedback, error)
	ListByIdea(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.Feedback) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(records) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (fr *feedbackRepo) ListByIdea(ctx context.Context, tx *gorm.DB, ideaID uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feedback
	if err := transaction.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
