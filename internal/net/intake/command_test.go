package intake

import (
	"testing"
	"time"

	"crownridge/server"
	"crownridge/server/internal/net/proto"
	"crownridge/server/internal/sim"
)

func TestStageClientCommandStampsAndStages(t *testing.T) {
	var staged []sim.Command
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := CommandContext{
		Stage: func(cmd sim.Command) bool { staged = append(staged, cmd); return true },
		Frame: func() uint64 { return 42 },
		Now:   func() time.Time { return at },
	}

	cmd, ok, reason := StageClientCommand(ctx, proto.ClientMessage{Type: proto.TypeInput, DX: 1})

	if !ok || reason != "" {
		t.Fatalf("valid command rejected: %s", reason)
	}
	if cmd.OriginTick != 42 || !cmd.IssuedAt.Equal(at) {
		t.Fatalf("command not stamped: %+v", cmd)
	}
	if len(staged) != 1 || staged[0].Type != sim.CommandMove {
		t.Fatalf("command not staged: %+v", staged)
	}
}

func TestStageClientCommandRejectsInvalid(t *testing.T) {
	ctx := CommandContext{Stage: func(sim.Command) bool { return true }}

	_, ok, reason := StageClientCommand(ctx, proto.ClientMessage{Type: "teleport"})

	if ok || reason != server.CommandRejectInvalid {
		t.Fatalf("expected invalid reject, got ok=%v reason=%s", ok, reason)
	}
}

func TestStageClientCommandReportsQueueLimit(t *testing.T) {
	ctx := CommandContext{Stage: func(sim.Command) bool { return false }}

	_, ok, reason := StageClientCommand(ctx, proto.ClientMessage{Type: proto.TypeSleep})

	if ok || reason != server.CommandRejectQueueLimit {
		t.Fatalf("expected queue-limit reject, got ok=%v reason=%s", ok, reason)
	}
}
