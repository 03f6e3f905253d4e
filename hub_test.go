package server

import (
	"strings"
	"testing"
	"time"

	"crownridge/server/internal/sim"
	"crownridge/server/internal/state"
)

func advanceOneFrame(h *Hub) {
	h.advanceFrame(time.Now(), 1.0/float64(frameRate))
}

func TestJoinRegistersSessionAndReturnsSnapshot(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})

	resp := h.Join()

	if resp.Ver != ProtocolVersion {
		t.Fatalf("expected protocol version %d, got %d", ProtocolVersion, resp.Ver)
	}
	if resp.ID == "" {
		t.Fatalf("join returned no session id")
	}
	if resp.Snapshot.Phase != string(PhaseRegionSelect) {
		t.Fatalf("expected region select snapshot, got %s", resp.Snapshot.Phase)
	}
	if resp.Layout != nil {
		t.Fatalf("layout present before region select")
	}
	if _, ok := h.sessions[resp.ID]; !ok {
		t.Fatalf("session not registered")
	}
}

func TestCommandsApplyAtFrameBoundary(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})

	if !h.Push(sim.Command{Type: sim.CommandSelectRegion, Region: &sim.RegionCommand{Region: "riverside"}}) {
		t.Fatalf("push rejected")
	}
	if h.world.phase != PhaseRegionSelect {
		t.Fatalf("command applied before the frame boundary")
	}

	advanceOneFrame(h)

	if h.world.phase != PhaseCharacterSelect {
		t.Fatalf("expected character select after the frame, got %s", h.world.phase)
	}
	if h.Frame() != 1 {
		t.Fatalf("expected frame 1, got %d", h.Frame())
	}
}

func TestPushReportsOverflow(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed", CommandBufferSize: 1})

	if !h.Push(sim.Command{Type: sim.CommandExitScene}) {
		t.Fatalf("first push rejected")
	}
	if h.Push(sim.Command{Type: sim.CommandExitScene}) {
		t.Fatalf("overflow push accepted")
	}
}

func TestFrameLoopRunsDetection(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	h.Push(sim.Command{Type: sim.CommandSelectRegion, Region: &sim.RegionCommand{Region: "riverside"}})
	h.Push(sim.Command{Type: sim.CommandConfirmCharacter})
	advanceOneFrame(h)

	w := h.world
	w.hasRoyalSystem = true
	vehicle := w.addVehicle(state.VehicleGoldenCarriage, "#ffd700", false, false)
	w.activeVehicleID = vehicle.ID
	witness := plantNPC(w, "npc-witness", state.TargetNone)
	witness.Position = w.player.Position

	advanceOneFrame(h)

	if h.Snapshot().Phase != string(PhaseJail) {
		t.Fatalf("driver not jailed by the frame loop")
	}
}

func TestHotelStoryFallbackWithoutProvider(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	h.Push(sim.Command{Type: sim.CommandSelectRegion, Region: &sim.RegionCommand{Region: "riverside"}})
	h.Push(sim.Command{Type: sim.CommandConfirmCharacter})
	advanceOneFrame(h)

	hotel := placeHotel(h.world)
	moveTo(h.world, hotel)
	h.Push(sim.Command{Type: sim.CommandInteractBuilding, Target: &sim.TargetCommand{ID: hotel.ID}})

	advanceOneFrame(h) // interaction stages the story result
	advanceOneFrame(h) // result applies

	snap := h.Snapshot()
	if !snap.StoryMode {
		t.Fatalf("story overlay not opened")
	}
	if !strings.Contains(snap.Message, "rent") {
		t.Fatalf("expected the canned greeting, got %q", snap.Message)
	}
}

func TestHeartbeatRefreshesSession(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	resp := h.Join()
	now := time.Now()

	h.Push(sim.Command{Type: sim.CommandHeartbeat, Heartbeat: &sim.HeartbeatCommand{
		SessionID:  resp.ID,
		ClientSent: now.Add(-40 * time.Millisecond).UnixMilli(),
		ReceivedAt: now,
	}})
	h.advanceFrame(now, 1.0/float64(frameRate))

	session := h.sessions[resp.ID]
	if session == nil {
		t.Fatalf("session dropped")
	}
	if !session.lastHeartbeat.Equal(now) {
		t.Fatalf("heartbeat time not recorded")
	}
	if session.lastRTT <= 0 || session.lastRTT > time.Second {
		t.Fatalf("implausible RTT %v", session.lastRTT)
	}
}

func TestAbsurdRTTIgnored(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	resp := h.Join()
	now := time.Now()

	h.Push(sim.Command{Type: sim.CommandHeartbeat, Heartbeat: &sim.HeartbeatCommand{
		SessionID:  resp.ID,
		ClientSent: now.Add(-time.Minute).UnixMilli(),
		ReceivedAt: now,
	}})
	h.advanceFrame(now, 1.0/float64(frameRate))

	if rtt := h.sessions[resp.ID].lastRTT; rtt != 0 {
		t.Fatalf("minute-long RTT recorded: %v", rtt)
	}
}

func TestStaleSessionsDropped(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	resp := h.Join()

	h.mu.Lock()
	h.sessions[resp.ID].lastHeartbeat = time.Now().Add(-2 * disconnectAfter)
	h.mu.Unlock()

	advanceOneFrame(h)

	if _, ok := h.sessions[resp.ID]; ok {
		t.Fatalf("stale session survived")
	}
}

func TestDisconnectRemovesSession(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	resp := h.Join()

	h.Disconnect(resp.ID)

	if _, ok := h.sessions[resp.ID]; ok {
		t.Fatalf("session survived disconnect")
	}
	// A second disconnect is harmless.
	h.Disconnect(resp.ID)
}

func TestDiagnosticsSummary(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	resp := h.Join()
	advanceOneFrame(h)

	msg := h.DiagnosticsSnapshot()

	if msg.Frame != 1 {
		t.Fatalf("expected frame 1, got %d", msg.Frame)
	}
	if msg.Phase != string(PhaseRegionSelect) {
		t.Fatalf("unexpected phase %s", msg.Phase)
	}
	if len(msg.Sessions) != 1 || msg.Sessions[0].ID != resp.ID {
		t.Fatalf("session missing from diagnostics: %+v", msg.Sessions)
	}
}

func TestMarshalInitialStateRoundTrips(t *testing.T) {
	h := NewHub(HubConfig{Seed: "test-seed"})
	h.Push(sim.Command{Type: sim.CommandSelectRegion, Region: &sim.RegionCommand{Region: "riverside"}})
	advanceOneFrame(h)

	snap := h.Snapshot()
	layout := h.world.layoutSnapshot()

	payload, err := MarshalInitialState(snap, layout)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(payload), `"type":"state"`) {
		t.Fatalf("initial state missing type tag: %s", payload)
	}
}
