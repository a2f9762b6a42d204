package store

import (
	"time"

	"github.com/google/uuid"

	"paygate-bot/model"
)

// UserRepository defines operations for user records
type UserRepository interface {
	GetByID(telegramID int64) (*model.User, error)
	Exists(telegramID int64) (bool, error)
	// Upsert inserts the user if absent, otherwise overwrites username,
	// first name and last name and touches LastActiveAt. CreatedAt is
	// never changed on update.
	Upsert(user *model.User) error
}

// ChannelRepository defines operations for channel records
type ChannelRepository interface {
	GetByID(channelID int64) (*model.Channel, error)
	Exists(channelID int64) (bool, error)
	// Upsert inserts the channel if absent (stamping BotAddedAt),
	// otherwise overwrites owner, title, description and linked channel
	// id only. BotAddedAt, price, settings and flags survive updates.
	Upsert(channel *model.Channel) error
	ListActive() ([]model.Channel, error)
	// ListDueCheck returns active channels never checked or last checked
	// before the given time.
	ListDueCheck(before time.Time) ([]model.Channel, error)
	TouchLastCheck(channelID int64) error
}

// MembershipRepository is an extension point for the subscription
// lifecycle; the reconciliation core never writes memberships.
type MembershipRepository interface {
	Get(telegramID, channelID int64) (*model.ChannelMembership, error)
	Create(m *model.ChannelMembership) error
	UpdateStatus(telegramID, channelID int64, status string) error
}

// PaymentRepository is an extension point; no code in the core
// populates payment rows.
type PaymentRepository interface {
	GetByID(id uuid.UUID) (*model.PaymentTransaction, error)
	Create(p *model.PaymentTransaction) error
}

// InviteLinkRepository is an extension point for invite issuance.
type InviteLinkRepository interface {
	GetByID(id uuid.UUID) (*model.InviteLink, error)
	Create(l *model.InviteLink) error
	MarkUsed(id uuid.UUID) error
}
