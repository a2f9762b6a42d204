package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Membership lifecycle markers. Free text in the schema, these are the
// values the billing flow is expected to write.
const (
	MembershipStatusActive  = "active"
	MembershipStatusExpired = "expired"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type User struct {
	TelegramID   int64  `gorm:"primaryKey"` // Telegram User ID
	Username     string `gorm:"not null"`
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
	LastActiveAt time.Time

	Channels    []Channel            `gorm:"foreignKey:OwnerTelegramID;references:TelegramID"`
	Memberships []ChannelMembership  `gorm:"foreignKey:TelegramID;references:TelegramID"`
	Payments    []PaymentTransaction `gorm:"foreignKey:TelegramID;references:TelegramID"`
	InviteLinks []InviteLink         `gorm:"foreignKey:UserID;references:TelegramID"`
}

type Channel struct {
	ChannelID       int64 `gorm:"primaryKey"` // Telegram Chat ID
	LinkedChannelID *int64
	OwnerTelegramID int64 `gorm:"not null;index"`
	Title           string
	Description     string
	MonthlyPrice    decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Settings        datatypes.JSON      `gorm:"default:'{}'"`
	IsActive        bool                `gorm:"default:true"`
	CreatedAt       time.Time
	BotAddedAt      *time.Time
	LastCheckAt     *time.Time

	Memberships []ChannelMembership  `gorm:"foreignKey:ChannelID;references:ChannelID"`
	Payments    []PaymentTransaction `gorm:"foreignKey:ChannelID;references:ChannelID"`
	InviteLinks []InviteLink         `gorm:"foreignKey:ChannelID;references:ChannelID"`
}

// ChannelMembership records a paid subscription of a user to a channel.
// Nothing in the reconciliation core writes it; the billing flow will.
type ChannelMembership struct {
	TelegramID        int64 `gorm:"primaryKey;autoIncrement:false"`
	ChannelID         int64 `gorm:"primaryKey;autoIncrement:false"`
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
	PaymentHistory    datatypes.JSON `gorm:"default:'[]'"`
	NotificationsSent datatypes.JSON `gorm:"default:'[]'"`
	Status            string         `gorm:"not null"`
}

type PaymentTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TelegramID      int64           `gorm:"not null;index"`
	ChannelID       int64           `gorm:"not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency        string          `gorm:"not null"`
	Status          string          `gorm:"not null"`
	CreatedAt       time.Time
	CompletedAt     *time.Time
	TransactionData datatypes.JSON `gorm:"default:'{}'"`
}

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type InviteLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChannelID int64     `gorm:"not null;index"`
	UserID    int64     `gorm:"not null;index"`
	ExpiresAt time.Time
	Used      bool `gorm:"default:false"`
}

func (l *InviteLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Channel{},
		&ChannelMembership{},
		&PaymentTransaction{},
		&InviteLink{},
	}
}
