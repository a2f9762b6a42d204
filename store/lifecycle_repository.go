package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"paygate-bot/model"
)

// The lifecycle repositories back the subscription schema. The
// reconciliation core never calls them; they exist so the billing flow
// has a store surface to grow into.

type membershipRepository struct {
	db *gorm.DB
}

func (r *membershipRepository) Get(telegramID, channelID int64) (*model.ChannelMembership, error) {
	var m model.ChannelMembership
	err := r.db.
		Where("telegram_id = ? AND channel_id = ?", telegramID, channelID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) Create(m *model.ChannelMembership) error {
	return r.db.Create(m).Error
}

func (r *membershipRepository) UpdateStatus(telegramID, channelID int64, status string) error {
	return r.db.Model(&model.ChannelMembership{}).
		Where("telegram_id = ? AND channel_id = ?", telegramID, channelID).
		Update("status", status).Error
}

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) GetByID(id uuid.UUID) (*model.PaymentTransaction, error) {
	var p model.PaymentTransaction
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(p *model.PaymentTransaction) error {
	return r.db.Create(p).Error
}

type inviteLinkRepository struct {
	db *gorm.DB
}

func (r *inviteLinkRepository) GetByID(id uuid.UUID) (*model.InviteLink, error) {
	var l model.InviteLink
	if err := r.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *inviteLinkRepository) Create(l *model.InviteLink) error {
	return r.db.Create(l).Error
}

func (r *inviteLinkRepository) MarkUsed(id uuid.UUID) error {
	return r.db.Model(&model.InviteLink{}).
		Where("id = ?", id).
		Update("used", true).Error
}
