package store

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paygate-bot/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, so every query sees the in-memory schema
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.All()...))
	return New(db)
}

func strPtr(s string) *string { return &s }

func TestUserUpsertInsertsThenOverwrites(t *testing.T) {
	st := testStore(t)

	require.NoError(t, st.Users.Upsert(&model.User{
		TelegramID: 10,
		Username:   "alice",
		FirstName:  strPtr("Alice"),
	}))

	created, err := st.Users.GetByID(10)
	require.NoError(t, err)
	require.Equal(t, "alice", created.Username)
	require.False(t, created.CreatedAt.IsZero())

	require.NoError(t, st.Users.Upsert(&model.User{
		TelegramID: 10,
		Username:   "alice_renamed",
		LastName:   strPtr("Liddell"),
	}))

	updated, err := st.Users.GetByID(10)
	require.NoError(t, err)
	require.Equal(t, "alice_renamed", updated.Username)
	require.Nil(t, updated.FirstName) // last write wins, no merge
	require.NotNil(t, updated.LastName)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUserExists(t *testing.T) {
	st := testStore(t)

	ok, err := st.Users.Exists(42)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.Users.Upsert(&model.User{TelegramID: 42, Username: "bob"}))

	ok, err = st.Users.Exists(42)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestChannelUpsertPreservesHistoricalFields(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Users.Upsert(&model.User{TelegramID: 10, Username: "alice"}))

	require.NoError(t, st.Channels.Upsert(&model.Channel{
		ChannelID:       555,
		OwnerTelegramID: 10,
		Title:           "A",
	}))

	created, err := st.Channels.GetByID(555)
	require.NoError(t, err)
	require.NotNil(t, created.BotAddedAt)
	require.True(t, created.IsActive)

	// simulate a price set between reconciliations
	price := decimal.NewNullDecimal(decimal.NewFromInt(5))
	require.NoError(t, st.db.Model(&model.Channel{}).
		Where("channel_id = ?", 555).
		Update("monthly_price", price).Error)

	linked := int64(-100777)
	require.NoError(t, st.Channels.Upsert(&model.Channel{
		ChannelID:       555,
		OwnerTelegramID: 10,
		Title:           "B",
		Description:     "paid channel",
		LinkedChannelID: &linked,
	}))

	updated, err := st.Channels.GetByID(555)
	require.NoError(t, err)
	require.Equal(t, "B", updated.Title)
	require.Equal(t, "paid channel", updated.Description)
	require.NotNil(t, updated.LinkedChannelID)
	require.Equal(t, linked, *updated.LinkedChannelID)
	require.Equal(t, created.BotAddedAt.Unix(), updated.BotAddedAt.Unix())
	require.True(t, updated.MonthlyPrice.Valid)
}

func TestChannelListDueCheck(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Users.Upsert(&model.User{TelegramID: 10, Username: "alice"}))
	require.NoError(t, st.Channels.Upsert(&model.Channel{ChannelID: 1, OwnerTelegramID: 10}))
	require.NoError(t, st.Channels.Upsert(&model.Channel{ChannelID: 2, OwnerTelegramID: 10}))

	// never checked: both are due
	due, err := st.Channels.ListDueCheck(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)

	require.NoError(t, st.Channels.TouchLastCheck(1))

	due, err = st.Channels.ListDueCheck(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, int64(2), due[0].ChannelID)
}

func TestTransactionRollsBackBothWrites(t *testing.T) {
	st := testStore(t)

	err := st.Transaction(func(tx *Store) error {
		if err := tx.Users.Upsert(&model.User{TelegramID: 10, Username: "alice"}); err != nil {
			return err
		}
		if err := tx.Channels.Upsert(&model.Channel{ChannelID: 555, OwnerTelegramID: 10}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	ok, err := st.Users.Exists(10)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = st.Channels.Exists(555)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMembershipLifecycle(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Users.Upsert(&model.User{TelegramID: 10, Username: "alice"}))
	require.NoError(t, st.Channels.Upsert(&model.Channel{ChannelID: 555, OwnerTelegramID: 10}))

	m := &model.ChannelMembership{
		TelegramID:        10,
		ChannelID:         555,
		SubscriptionStart: time.Now().UTC(),
		SubscriptionEnd:   time.Now().UTC().Add(30 * 24 * time.Hour),
		Status:            model.MembershipStatusActive,
	}
	require.NoError(t, st.Memberships.Create(m))

	got, err := st.Memberships.Get(10, 555)
	require.NoError(t, err)
	require.Equal(t, model.MembershipStatusActive, got.Status)

	require.NoError(t, st.Memberships.UpdateStatus(10, 555, model.MembershipStatusExpired))
	got, err = st.Memberships.Get(10, 555)
	require.NoError(t, err)
	require.Equal(t, model.MembershipStatusExpired, got.Status)
}

func TestPaymentAndInviteLinkExtensionPoints(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.Users.Upsert(&model.User{TelegramID: 10, Username: "alice"}))
	require.NoError(t, st.Channels.Upsert(&model.Channel{ChannelID: 555, OwnerTelegramID: 10}))

	p := &model.PaymentTransaction{
		TelegramID: 10,
		ChannelID:  555,
		Amount:     decimal.NewFromInt(5),
		Currency:   "TON",
		Status:     model.PaymentStatusPending,
	}
	require.NoError(t, st.Payments.Create(p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := st.Payments.GetByID(p.ID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, got.Status)

	l := &model.InviteLink{
		ChannelID: 555,
		UserID:    10,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, st.InviteLinks.Create(l))
	require.NoError(t, st.InviteLinks.MarkUsed(l.ID))

	link, err := st.InviteLinks.GetByID(l.ID)
	require.NoError(t, err)
	require.True(t, link.Used)
}
