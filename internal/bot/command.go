package bot

import (
	"strconv"
	"strings"
)

// Kind classifies an inbound text message.
type Kind int

const (
	// KindNone marks plain text that is not a command; it gets no reply.
	KindNone Kind = iota
	// KindHelp is /help.
	KindHelp
	// KindNewGoal is /newgoal with its title argument.
	KindNewGoal
	// KindGoals is /goals.
	KindGoals
	// KindComplete is /complete with its goal id argument.
	KindComplete
	// KindStatus is the hidden admin /status command.
	KindStatus
	// KindUnknown is any other slash-prefixed message.
	KindUnknown
)

// Command is the parsed form of an inbound message. Title is set for
// KindNewGoal (possibly empty when the argument is missing); GoalID is set
// for KindComplete (0 when the argument is missing or not a positive number).
type Command struct {
	Kind   Kind
	Title  string
	GoalID int64
}

// Parse classifies a raw message text into a Command. Command names are
// case-sensitive and an optional @botname suffix is stripped before matching,
// so "/goals@MyGoalBot" behaves like "/goals".
func Parse(text string) Command {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "/") {
		return Command{Kind: KindNone}
	}

	name := s
	arg := ""
	if i := strings.IndexFunc(s, isSpace); i >= 0 {
		name = s[:i]
		arg = strings.TrimSpace(s[i:])
	}
	name = stripMention(name)

	switch name {
	case "/help":
		return Command{Kind: KindHelp}
	case "/newgoal":
		return Command{Kind: KindNewGoal, Title: arg}
	case "/goals":
		return Command{Kind: KindGoals}
	case "/complete":
		return Command{Kind: KindComplete, GoalID: parseGoalID(arg)}
	case "/status":
		return Command{Kind: KindStatus}
	default:
		return Command{Kind: KindUnknown}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// stripMention removes a trailing @botname from the command token.
func stripMention(name string) string {
	at := strings.IndexByte(name, '@')
	if at < 0 {
		return name
	}
	return name[:at]
}

// parseGoalID accepts positive decimal integers only; anything else maps to 0.
func parseGoalID(arg string) int64 {
	if arg == "" {
		return 0
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
