package userclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
)

// botAPIChannelOffset converts between the bot-API chat id form
// (-100XXXXXXXXXX) and the bare MTProto channel id.
const botAPIChannelOffset = int64(1000000000000)

// MTProto is the gotd-backed Client. The session must already be
// authorized (the file at sessionPath holds the login state).
type MTProto struct {
	client *telegram.Client
	api    *tg.Client
	stop   context.CancelFunc
	done   chan error
	log    zerolog.Logger
}

func NewMTProto(appID int, appHash, sessionPath string, log zerolog.Logger) *MTProto {
	client := telegram.NewClient(appID, appHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionPath},
	})
	return &MTProto{
		client: client,
		done:   make(chan error, 1),
		log:    log.With().Str("component", "userclient").Logger(),
	}
}

// Start connects and keeps the MTProto session running until Close.
func (m *MTProto) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	m.stop = cancel

	ready := make(chan struct{})
	go func() {
		m.done <- m.client.Run(runCtx, func(ctx context.Context) error {
			status, err := m.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("auth status: %w", err)
			}
			if !status.Authorized {
				return errors.New("session not authorized; log the account in first")
			}
			m.api = m.client.API()
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		m.log.Info().Msg("mtproto session connected")
		return nil
	case err := <-m.done:
		cancel()
		return fmt.Errorf("mtproto connect: %w", err)
	case <-time.After(30 * time.Second):
		cancel()
		return errors.New("mtproto connect: timeout")
	}
}

func (m *MTProto) Close() {
	if m.stop != nil {
		m.stop()
		<-m.done
	}
}

func (m *MTProto) ResolveUser(ctx context.Context, userID int64) (*User, error) {
	users, err := m.api.UsersGetUsers(ctx, []tg.InputUserClass{
		&tg.InputUser{UserID: userID},
	})
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}
	for _, u := range users {
		full, ok := u.(*tg.User)
		if !ok || full.ID != userID {
			continue
		}
		return &User{
			ID:         full.ID,
			AccessHash: full.AccessHash,
			Username:   full.Username,
			FirstName:  full.FirstName,
			LastName:   full.LastName,
		}, nil
	}
	return nil, fmt.Errorf("resolve user %d: not found", userID)
}

func (m *MTProto) KickParticipant(ctx context.Context, channelID, userID int64) (int, error) {
	channel, err := m.inputChannel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	user, err := m.ResolveUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	updates, err := m.api.ChannelsEditBanned(ctx, &tg.ChannelsEditBannedRequest{
		Channel: channel,
		Participant: &tg.InputPeerUser{
			UserID:     user.ID,
			AccessHash: user.AccessHash,
		},
		BannedRights: tg.ChatBannedRights{
			ViewMessages: true,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("kick %d from %d: %w", userID, channelID, err)
	}
	return serviceMessageID(updates), nil
}

// serviceMessageID digs the "user removed" service message out of the
// update set a kick returns, so the caller can clean it up.
func serviceMessageID(updates tg.UpdatesClass) int {
	var list []tg.UpdateClass
	switch u := updates.(type) {
	case *tg.Updates:
		list = u.Updates
	case *tg.UpdatesCombined:
		list = u.Updates
	default:
		return 0
	}
	for _, upd := range list {
		channelMsg, ok := upd.(*tg.UpdateNewChannelMessage)
		if !ok {
			continue
		}
		if svc, ok := channelMsg.Message.(*tg.MessageService); ok {
			return svc.ID
		}
	}
	return 0
}

func (m *MTProto) DeleteMessage(ctx context.Context, channelID int64, messageID int) error {
	channel, err := m.inputChannel(ctx, channelID)
	if err != nil {
		return err
	}
	_, err = m.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
		Channel: channel,
		ID:      []int{messageID},
	})
	if err != nil {
		return fmt.Errorf("delete message %d in %d: %w", messageID, channelID, err)
	}
	return nil
}

// inputChannel resolves the access hash for a channel known by its
// bot-API id. Relies on the channel being reachable from this account
// (the owner's session has it in its dialogs).
func (m *MTProto) inputChannel(ctx context.Context, channelID int64) (*tg.InputChannel, error) {
	bare := channelID
	if bare < 0 {
		bare = -bare - botAPIChannelOffset
	}
	chats, err := m.api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
		&tg.InputChannel{ChannelID: bare},
	})
	if err != nil {
		return nil, fmt.Errorf("resolve channel %d: %w", channelID, err)
	}
	for _, c := range chats.GetChats() {
		ch, ok := c.(*tg.Channel)
		if !ok || ch.ID != bare {
			continue
		}
		return &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
	}
	return nil, fmt.Errorf("resolve channel %d: not found", channelID)
}
