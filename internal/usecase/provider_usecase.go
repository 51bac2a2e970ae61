package usecase

import (
	"context"
	"fmt"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// IProviderUseCase manages the payout account a provider is paid to.
type IProviderUseCase interface {
	SetPayoutAccount(ctx context.Context, actor entities.Actor, phone string) (entities.ProviderProfile, error)
	GetPayoutAccount(ctx context.Context, actor entities.Actor) (entities.ProviderProfile, error)
}

type ProviderUseCase struct {
	profiles    interfaces.IProviderProfileRepository
	countryCode string
	logger      *zap.Logger
	now         func() time.Time
}

var _ IProviderUseCase = (*ProviderUseCase)(nil)

func NewProviderUseCase(profiles interfaces.IProviderProfileRepository, countryCode string, logger *zap.Logger) *ProviderUseCase {
	if countryCode == "" {
		countryCode = entities.DefaultCountryCode
	}
	return &ProviderUseCase{
		profiles:    profiles,
		countryCode: countryCode,
		logger:      nopIfNil(logger).Named("provider"),
		now:         utcNow,
	}
}

func (u *ProviderUseCase) SetPayoutAccount(ctx context.Context, actor entities.Actor, phone string) (entities.ProviderProfile, error) {
	if actor.Role != entities.RoleCleaner || actor.ID == "" {
		return entities.ProviderProfile{}, ErrForbidden
	}
	msisdn, err := entities.NormalizeMSISDN(phone, u.countryCode)
	if err != nil {
		return entities.ProviderProfile{}, fmt.Errorf("%w: %v", ErrInvalidPayoutAccount, err)
	}
	saved, err := u.profiles.Upsert(ctx, entities.ProviderProfile{
		UserID:           actor.ID,
		MpesaPhoneNumber: msisdn,
		UpdatedAt:        u.now(),
	})
	if err != nil {
		u.logger.Error("failed to save payout account", zap.String("provider_id", actor.ID), zap.Error(err))
		return entities.ProviderProfile{}, err
	}
	u.logger.Info("payout account updated", zap.String("provider_id", actor.ID))
	return saved, nil
}

func (u *ProviderUseCase) GetPayoutAccount(ctx context.Context, actor entities.Actor) (entities.ProviderProfile, error) {
	if actor.Role != entities.RoleCleaner || actor.ID == "" {
		return entities.ProviderProfile{}, ErrForbidden
	}
	p, err := u.profiles.GetByUserID(ctx, actor.ID)
	if err != nil {
		return entities.ProviderProfile{}, err
	}
	if p.UserID == "" {
		return entities.ProviderProfile{}, ErrPayoutAccountNotFound
	}
	return p, nil
}
