// Package intake validates decoded client messages and stages them into the
// simulation's command buffer, keeping the websocket layer free of gameplay
// knowledge.
package intake

import (
	"time"

	"crownridge/server"
	"crownridge/server/internal/net/proto"
	"crownridge/server/internal/sim"
)

// CommandContext supplies the staging dependencies.
type CommandContext struct {
	Stage func(sim.Command) bool
	Frame func() uint64
	Now   func() time.Time
}

// StageClientCommand converts a client message into a command and pushes it.
// Returns the staged command, or false with a reject reason.
func StageClientCommand(ctx CommandContext, msg proto.ClientMessage) (sim.Command, bool, string) {
	var zero sim.Command

	command, ok := proto.ClientCommand(msg)
	if !ok {
		return zero, false, server.CommandRejectInvalid
	}

	if ctx.Frame != nil {
		command.OriginTick = ctx.Frame()
	}
	if ctx.Now != nil {
		command.IssuedAt = ctx.Now()
	} else {
		command.IssuedAt = time.Now()
	}

	if ctx.Stage == nil || !ctx.Stage(command) {
		return zero, false, server.CommandRejectQueueLimit
	}
	return command, true, ""
}
