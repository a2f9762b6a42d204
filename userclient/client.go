// Package userclient wraps the MTProto user-account session used for
// membership removal. The bot API cannot kick on behalf of the channel
// owner in every setup, so removal goes through a logged-in user client.
package userclient

import (
	"context"
	"fmt"
)

// User is the resolved profile of an account-client entity.
type User struct {
	ID         int64
	AccessHash int64
	Username   string
	FirstName  string
	LastName   string
}

// DisplayName renders the best human-readable handle for chat replies.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = fmt.Sprintf("id:%d", u.ID)
	}
	return name
}

// Client is the narrow automation surface the bot depends on, so tests
// can substitute fakes.
type Client interface {
	// ResolveUser looks the user up by its Telegram id.
	ResolveUser(ctx context.Context, userID int64) (*User, error)
	// KickParticipant removes the user from the channel and returns the
	// id of the service message the removal produced, 0 when none was
	// observed. channelID is the bot-API chat id (the -100 form).
	KickParticipant(ctx context.Context, channelID, userID int64) (int, error)
	// DeleteMessage removes a message artifact from the channel,
	// best-effort.
	DeleteMessage(ctx context.Context, channelID int64, messageID int) error
}
