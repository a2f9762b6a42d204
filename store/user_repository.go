package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"paygate-bot/model"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) GetByID(telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(telegramID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("telegram_id = ?", telegramID).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Upsert(user *model.User) error {
	now := time.Now().UTC()

	var existing model.User
	err := r.db.First(&existing, "telegram_id = ?", user.TelegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user.CreatedAt = now
		user.LastActiveAt = now
		return r.db.Create(user).Error
	}
	if err != nil {
		return err
	}

	// Last write wins on profile fields. CreatedAt is preserved.
	return r.db.Model(&model.User{}).
		Where("telegram_id = ?", user.TelegramID).
		Updates(map[string]any{
			"username":       user.Username,
			"first_name":     user.FirstName,
			"last_name":      user.LastName,
			"last_active_at": now,
		}).Error
}
