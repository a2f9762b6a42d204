package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"
)

const moderationTimeout = time.Minute

// handleBan removes a channel member named by the /ban argument. The
// store is not involved; every failure is rendered back into the chat.
func (bot *Bot) handleBan(c tele.Context) error {
	args := commandArgs(c.Text(), bot.username)
	if len(args) == 0 {
		return c.Send("Usage: /ban <user id>")
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send(fmt.Sprintf("%q is not a user id.", args[0]))
	}

	if err := bot.removeMember(c, targetID); err != nil {
		bot.log.Warn().Err(err).
			Int64("chat_id", c.Chat().ID).
			Int64("target_id", targetID).
			Msg("ban failed")
		return c.Send(fmt.Sprintf("Could not remove the user: %v", err))
	}
	return nil
}

func (bot *Bot) removeMember(c tele.Context, targetID int64) error {
	chat := c.Chat()

	member, err := bot.chats.ChatMemberOf(chat, &tele.User{ID: targetID})
	if err != nil {
		// transport or permission failure, not the same as absent
		return fmt.Errorf("member lookup: %w", err)
	}
	if member == nil || member.Role == tele.Left || member.Role == tele.Kicked {
		return c.Send(fmt.Sprintf("User %d is not a member of this channel.", targetID))
	}

	ctx, cancel := context.WithTimeout(context.Background(), moderationTimeout)
	defer cancel()

	target, err := bot.Users.ResolveUser(ctx, member.User.ID)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}

	artifactID, err := bot.Users.KickParticipant(ctx, chat.ID, target.ID)
	if err != nil {
		return fmt.Errorf("kick: %w", err)
	}

	// The kick leaves a service message behind; clean it up best-effort.
	if artifactID != 0 {
		if err := bot.Users.DeleteMessage(ctx, chat.ID, artifactID); err != nil {
			bot.log.Debug().Err(err).Int64("chat_id", chat.ID).Msg("artifact cleanup failed")
		}
	}

	return c.Send(fmt.Sprintf("Removed %s from the channel.", target.DisplayName()))
}
