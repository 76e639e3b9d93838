package postgres

import (
	"context"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// referralRepository implements the domain.ReferralRepository interface using GORM.
type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository is the constructor for referralRepository.
func NewReferralRepository(db *gorm.DB) repository.ReferralRepository {
	return &referralRepository{db: db}
}

// Create persists a new referral attribution.
func (repo *referralRepository) Create(ctx context.Context, referral *entity.Referral) error {
	referralM := fromReferralDomain(referral)

	if err := repo.db.WithContext(ctx).Create(referralM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("user is already attributed to a referrer")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("referral references a missing user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create referral")
	}

	referral.ID = referralM.ID
	referral.CreatedAt = referralM.CreatedAt

	return nil
}

// ListByReferrerID retrieves all referrals attributed to a user.
func (repo *referralRepository) ListByReferrerID(ctx context.Context, referrerID int64) ([]*entity.Referral, error) {
	var referralMs []*model.ReferralModel
	err := repo.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at ASC").
		Find(&referralMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list referrals")
	}

	referrals := make([]*entity.Referral, 0, len(referralMs))
	for _, referralM := range referralMs {
		referrals = append(referrals, toReferralDomain(referralM))
	}

	return referrals, nil
}

// --- Mapper Functions ---

// toReferralDomain converts a GORM ReferralModel to a domain Referral entity.
func toReferralDomain(data *model.ReferralModel) *entity.Referral {
	if data == nil {
		return nil
	}

	return &entity.Referral{
		ID:         data.ID,
		ReferrerID: data.ReferrerID,
		ReferredID: data.ReferredID,
		CreatedAt:  data.CreatedAt,
	}
}

// fromReferralDomain converts a domain Referral entity to a GORM ReferralModel.
func fromReferralDomain(data *entity.Referral) *model.ReferralModel {
	if data == nil {
		return nil
	}

	return &model.ReferralModel{
		ID:         data.ID,
		ReferrerID: data.ReferrerID,
		ReferredID: data.ReferredID,
		CreatedAt:  data.CreatedAt,
	}
}
