package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"paygate-bot/reconcile"
	"paygate-bot/store"
	"paygate-bot/userclient"
)

// chatAPI is the slice of the bot API the handlers read directly;
// *tele.Bot satisfies it.
type chatAPI interface {
	ChatByID(id int64) (*tele.Chat, error)
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

type Bot struct {
	B     *tele.Bot
	Store *store.Store
	Recon *reconcile.Service
	Users userclient.Client

	chats      chatAPI
	username   string
	checkEvery time.Duration
	log        zerolog.Logger
}

func New(token string, st *store.Store, users userclient.Client, checkEvery time.Duration, log zerolog.Logger) (*Bot, error) {
	log = log.With().Str("component", "bot").Logger()

	pref := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message", "channel_post", "my_chat_member"},
		},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("handler error")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		B:          b,
		Store:      st,
		Recon:      reconcile.New(b, st, log),
		Users:      users,
		chats:      b,
		username:   b.Me.Username,
		checkEvery: checkEvery,
		log:        log,
	}

	b.Use(middleware.Recover())
	bot.registerHandlers()
	return bot, nil
}

func (bot *Bot) Start() {
	bot.B.Start()
}

func (bot *Bot) Stop() {
	bot.B.Stop()
}

func (bot *Bot) registerHandlers() {
	// Commands
	bot.B.Handle("/start", bot.handleStart)

	// Role changes of the bot itself
	bot.B.Handle(tele.OnMyChatMember, bot.handleMyChatMember)

	// Channel posts carry the /ban command and double as a
	// metadata-changed signal
	bot.B.Handle(tele.OnChannelPost, bot.handleChannelPost)

	// Group texts, for the "@botname /start" form Telegram does not
	// route through the command handler
	bot.B.Handle(tele.OnText, bot.handleText)
}

// --- Handlers ---

func (bot *Bot) handleStart(c tele.Context) error {
	if c.Chat().Type == tele.ChatPrivate {
		return c.Send("Hi! This bot manages paid access to Telegram channels. Add it to your channel as an administrator to register the channel.")
	}
	return c.Send("Hi! The bot is up in this group.")
}

func (bot *Bot) handleText(c tele.Context) error {
	if c.Chat().Type == tele.ChatPrivate {
		return nil
	}
	if matchCommand(c.Text(), bot.username, "start") {
		return bot.handleStart(c)
	}
	return nil
}

func (bot *Bot) handleChannelPost(c tele.Context) error {
	text := c.Text()
	username := bot.username

	switch {
	case matchCommand(text, username, "ban"):
		return bot.handleBan(c)
	case matchCommand(text, username, "start"):
		return bot.handleStart(c)
	}

	// Any other post may mean the linked chat or metadata changed;
	// reconciling is idempotent, so refresh on every post.
	bot.reconcileAndReport(c, c.Chat().ID, false)
	return nil
}

func (bot *Bot) handleMyChatMember(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.OldChatMember == nil || upd.NewChatMember == nil {
		return nil
	}

	switch classify(upd.OldChatMember.Role, upd.NewChatMember.Role) {
	case actionGreet:
		return bot.greet(c, upd.Chat.ID)
	case actionReconcile:
		bot.reconcileAndReport(c, upd.Chat.ID, true)
	}
	return nil
}

// greet sends the one-time hello if the chat permits messaging,
// otherwise just records the event. Never touches the store.
func (bot *Bot) greet(c tele.Context, chatID int64) error {
	chat, err := bot.chats.ChatByID(chatID)
	if err != nil {
		bot.log.Warn().Err(err).Int64("chat_id", chatID).Msg("added as member, chat lookup failed")
		return nil
	}
	if chat.Permissions != nil && !chat.Permissions.CanSendMessages {
		bot.log.Info().Int64("chat_id", chatID).Msg("added as member, messaging not permitted")
		return nil
	}
	return c.Send(fmt.Sprintf("Hi! I was added to chat %d. Promote me to administrator to register the channel.", chatID))
}

// reconcileAndReport is the single error boundary around reconciliation:
// failures are logged, never re-raised into the event loop. The no-owner
// case gets a courtesy note when the call came from a promotion.
func (bot *Bot) reconcileAndReport(c tele.Context, chatID int64, promoted bool) {
	err := bot.Recon.Reconcile(chatID)
	if err == nil {
		return
	}
	if errors.Is(err, reconcile.ErrNoOwner) {
		bot.log.Info().Int64("chat_id", chatID).Msg("chat has no owner, skipped")
		if promoted {
			if serr := c.Send(fmt.Sprintf("Thanks for making me an administrator! Chat %d has no owner, so it was not registered.", chatID)); serr != nil {
				bot.log.Warn().Err(serr).Int64("chat_id", chatID).Msg("no-owner note failed")
			}
		}
		return
	}
	bot.log.Error().Err(err).Int64("chat_id", chatID).Msg("reconciliation failed")
}
