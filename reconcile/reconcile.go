// Package reconcile synchronizes stored channel ownership and metadata
// with live Telegram state.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"paygate-bot/model"
	"paygate-bot/store"
)

// ErrNoOwner means the administrator list had no creator entry. The
// store is left untouched in that case.
var ErrNoOwner = errors.New("no creator in administrator list")

// ChatSource is the slice of the bot API the service reads. *telebot.Bot
// satisfies it.
type ChatSource interface {
	ChatByID(id int64) (*tele.Chat, error)
	AdminsOf(chat *tele.Chat) ([]tele.ChatMember, error)
}

type Service struct {
	chats ChatSource
	store *store.Store
	log   zerolog.Logger
}

func New(chats ChatSource, st *store.Store, log zerolog.Logger) *Service {
	return &Service{
		chats: chats,
		store: st,
		log:   log.With().Str("component", "reconcile").Logger(),
	}
}

// Reconcile fetches the chat and its administrators, then upserts the
// creator as a User and the chat as a Channel in a single transaction.
// It is idempotent and sends no messages; callers decide how to report
// failures. Store untouched when no creator is found.
func (s *Service) Reconcile(channelID int64) error {
	chat, err := s.chats.ChatByID(channelID)
	if err != nil {
		return fmt.Errorf("reconcile %d: fetch chat: %w", channelID, err)
	}

	admins, err := s.chats.AdminsOf(chat)
	if err != nil {
		return fmt.Errorf("reconcile %d: fetch administrators: %w", channelID, err)
	}

	var owner *tele.ChatMember
	for i := range admins {
		if admins[i].Role == tele.Creator {
			owner = &admins[i]
			break
		}
	}
	if owner == nil {
		return fmt.Errorf("reconcile %d: %w", channelID, ErrNoOwner)
	}

	user := userFromProfile(owner.User)
	channel := channelFromChat(chat, user.TelegramID)

	// User upsert precedes channel upsert so the owner FK always
	// resolves; a failure in either rolls both back.
	err = s.store.Transaction(func(tx *store.Store) error {
		if err := tx.Users.Upsert(user); err != nil {
			return fmt.Errorf("upsert user %d: %w", user.TelegramID, err)
		}
		if err := tx.Channels.Upsert(channel); err != nil {
			return fmt.Errorf("upsert channel %d: %w", channel.ChannelID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reconcile %d: %w", channelID, err)
	}

	s.log.Debug().
		Int64("channel_id", channelID).
		Int64("owner_id", user.TelegramID).
		Msg("channel reconciled")
	return nil
}

func userFromProfile(u *tele.User) *model.User {
	return &model.User{
		TelegramID: u.ID,
		Username:   u.Username,
		FirstName:  optional(u.FirstName),
		LastName:   optional(u.LastName),
	}
}

func channelFromChat(chat *tele.Chat, ownerID int64) *model.Channel {
	ch := &model.Channel{
		ChannelID:       chat.ID,
		OwnerTelegramID: ownerID,
		Title:           chat.Title,
		Description:     chat.Description,
	}
	if chat.LinkedChatID != 0 {
		linked := chat.LinkedChatID
		ch.LinkedChannelID = &linked
	}
	return ch
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
