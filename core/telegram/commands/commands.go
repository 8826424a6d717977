// Package commands defines the registry entry for a bot command.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command couples a handler with the metadata used when publishing
// the command list to Telegram.
type Command struct {
	Handler     tele.HandlerFunc
	Description string

	// AdminOnly restricts the command to the configured admin user.
	AdminOnly bool
	// Hidden keeps the command out of the published command list.
	Hidden bool
}
