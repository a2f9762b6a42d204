package bot

import (
	"strings"
)

// matchCommand reports whether text invokes /cmd. An "@botname" mention
// may precede the slash command; matching is case-insensitive and
// accepts no other punctuation variance, so "/starting" never matches
// "start".
func matchCommand(text, botUsername, cmd string) bool {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > 0 && fields[0] == "@"+strings.ToLower(botUsername) {
		fields = fields[1:]
	}
	return len(fields) > 0 && fields[0] == "/"+cmd
}

// commandArgs returns the tokens following the command itself.
func commandArgs(text, botUsername string) []string {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.EqualFold(fields[0], "@"+botUsername) {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}
