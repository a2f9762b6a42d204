package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"paygate-bot/model"
)

// channelRepository implements the ChannelRepository interface
type channelRepository struct {
	db *gorm.DB
}

func (r *channelRepository) GetByID(channelID int64) (*model.Channel, error) {
	var channel model.Channel
	if err := r.db.First(&channel, "channel_id = ?", channelID).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) Exists(channelID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Channel{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count > 0, err
}

func (r *channelRepository) Upsert(channel *model.Channel) error {
	now := time.Now().UTC()

	var existing model.Channel
	err := r.db.First(&existing, "channel_id = ?", channel.ChannelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		channel.CreatedAt = now
		channel.BotAddedAt = &now
		channel.IsActive = true
		return r.db.Create(channel).Error
	}
	if err != nil {
		return err
	}

	// Overwrite live platform metadata only; BotAddedAt, price,
	// settings and the active flag are historical and survive.
	return r.db.Model(&model.Channel{}).
		Where("channel_id = ?", channel.ChannelID).
		Updates(map[string]any{
			"owner_telegram_id": channel.OwnerTelegramID,
			"title":             channel.Title,
			"description":       channel.Description,
			"linked_channel_id": channel.LinkedChannelID,
		}).Error
}

func (r *channelRepository) ListActive() ([]model.Channel, error) {
	var channels []model.Channel
	err := r.db.Where("is_active = ?", true).Find(&channels).Error
	return channels, err
}

func (r *channelRepository) ListDueCheck(before time.Time) ([]model.Channel, error) {
	var channels []model.Channel
	err := r.db.
		Where("is_active = ?", true).
		Where("last_check_at IS NULL OR last_check_at < ?", before).
		Find(&channels).Error
	return channels, err
}

func (r *channelRepository) TouchLastCheck(channelID int64) error {
	now := time.Now().UTC()
	return r.db.Model(&model.Channel{}).
		Where("channel_id = ?", channelID).
		Update("last_check_at", &now).Error
}
