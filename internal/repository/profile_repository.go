package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"momentum/internal/model"
)

// ProfileRepository stores accounts and their tracker document.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertFromTelegram finds or creates a profile based on TelegramID and updates basic profile info.
func (r *ProfileRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.Profile, error) {
	var profile model.Profile
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&profile).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return &profile, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = model.Profile{
			TelegramID:   telegramID,
			FirstName:    firstName,
			LastName:     lastName,
			Username:     username,
			IsFirstLogin: true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &profile, nil
	default:
		return nil, fmt.Errorf("find profile: %w", err)
	}
}

func (r *ProfileRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Load returns the tracker document of an account merged over the defaults,
// or nil when the account has none yet.
func (r *ProfileRepository) Load(ctx context.Context, account int64) (*model.UserData, error) {
	profile, err := r.FindByTelegramID(ctx, account)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user data: %w", err)
	}
	if profile.Data == nil {
		return nil, nil
	}
	data := profile.Data.Normalize()
	return &data, nil
}

// Save replaces the whole tracker document of an account, creating the profile if needed.
func (r *ProfileRepository) Save(ctx context.Context, account int64, data model.UserData) error {
	db := r.db.WithContext(ctx)
	var profile model.Profile
	err := db.Where("telegram_id = ?", account).First(&profile).Error
	switch {
	case err == nil:
		profile.Data = &data
		if err := db.Model(&profile).Select("data").Updates(&profile).Error; err != nil {
			return fmt.Errorf("save user data: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = model.Profile{TelegramID: account, IsFirstLogin: true, Data: &data}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find profile: %w", err)
	}
}

// CompleteOnboarding clears the first-login flag of an account.
func (r *ProfileRepository) CompleteOnboarding(ctx context.Context, account int64) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("telegram_id = ?", account).
		Update("is_first_login", false)
	if res.Error != nil {
		return fmt.Errorf("complete onboarding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
