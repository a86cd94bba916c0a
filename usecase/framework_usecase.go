package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"enabler-backend/dao"
	"enabler-backend/model"
	"enabler-backend/pkg/negotiation"
)

type FrameworkUsecase struct {
	repo   *dao.FrameworkRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewFrameworkUsecase(repo *dao.FrameworkRepository, logger *zap.Logger) *FrameworkUsecase {
	return &FrameworkUsecase{repo: repo, logger: logger.Named("framework"), now: time.Now}
}

// SaveFramework validates and stores an enabler's pricing policy, replacing
// any previous one.
func (u *FrameworkUsecase) SaveFramework(ctx context.Context, enablerID string, basePrice, maxDiscountPercentage decimal.Decimal, autoNegotiate bool) (*model.PricingFramework, error) {
	if enablerID == "" {
		return nil, fmt.Errorf("enabler id is required: %w", model.ErrInvalidOffer)
	}
	if err := negotiation.ValidateFramework(basePrice, maxDiscountPercentage); err != nil {
		return nil, err
	}

	fw := &model.PricingFramework{
		EnablerID:             enablerID,
		BasePrice:             basePrice,
		MaxDiscountPercentage: maxDiscountPercentage,
		AutoNegotiate:         autoNegotiate,
		UpdatedAt:             u.now().UTC(),
	}
	if err := u.repo.Upsert(ctx, fw); err != nil {
		return nil, fmt.Errorf("save framework: %w", err)
	}

	u.logger.Info("framework saved",
		zap.String("enabler_id", enablerID),
		zap.Stringer("base_price", basePrice),
		zap.Stringer("max_discount_percentage", maxDiscountPercentage),
		zap.Bool("auto_negotiate", autoNegotiate))
	return fw, nil
}

func (u *FrameworkUsecase) GetFramework(ctx context.Context, enablerID string) (*model.PricingFramework, error) {
	return u.repo.GetByEnablerID(ctx, enablerID)
}
