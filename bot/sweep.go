package bot

import (
	"errors"
	"time"

	"paygate-bot/reconcile"
)

// CheckChannels is called by the cron scheduler. It re-reconciles every
// active channel whose last check is older than the configured interval,
// so title, description and linked-chat changes made while the bot was
// quiet still land in the store.
func (bot *Bot) CheckChannels() {
	cutoff := time.Now().UTC().Add(-bot.checkEvery)
	channels, err := bot.Store.Channels.ListDueCheck(cutoff)
	if err != nil {
		bot.log.Error().Err(err).Msg("channel sweep: list failed")
		return
	}

	for _, ch := range channels {
		if err := bot.Recon.Reconcile(ch.ChannelID); err != nil {
			if errors.Is(err, reconcile.ErrNoOwner) {
				bot.log.Info().Int64("channel_id", ch.ChannelID).Msg("sweep: channel has no owner")
			} else {
				bot.log.Error().Err(err).Int64("channel_id", ch.ChannelID).Msg("sweep: reconcile failed")
			}
			continue
		}
		if err := bot.Store.Channels.TouchLastCheck(ch.ChannelID); err != nil {
			bot.log.Error().Err(err).Int64("channel_id", ch.ChannelID).Msg("sweep: touch failed")
		}
	}
}
