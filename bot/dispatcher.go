package bot

import (
	tele "gopkg.in/telebot.v3"
)

type action int

const (
	actionIgnore action = iota
	actionGreet
	actionReconcile
)

// classify maps a transition of the bot's own membership status to what
// the handler should do. Only the two join transitions are acted on;
// demotions and removals are deliberately ignored for now.
func classify(old, new tele.MemberStatus) action {
	wasOut := old == tele.Left || old == tele.Kicked
	if !wasOut {
		return actionIgnore
	}
	switch new {
	case tele.Member:
		return actionGreet
	case tele.Administrator:
		return actionReconcile
	default:
		return actionIgnore
	}
}
