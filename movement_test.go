package server

import (
	"context"
	"math"
	"testing"

	"crownridge/server/internal/state"
	"crownridge/server/internal/worldgen"
)

func TestMoveIntentNormalizesDiagonals(t *testing.T) {
	w := newTestWorld(t)

	w.setMoveIntent(1, 1)

	length := math.Hypot(w.player.IntentX, w.player.IntentZ)
	if math.Abs(length-1) > 1e-9 {
		t.Fatalf("diagonal intent length %f, want 1", length)
	}

	w.setMoveIntent(0.5, 0)
	if w.player.IntentX != 0.5 {
		t.Fatalf("sub-unit intent was rescaled: %f", w.player.IntentX)
	}
}

func TestAdvancePlayerIntegratesIntent(t *testing.T) {
	w := newTestWorld(t)
	w.cityObstacles = nil
	w.player.Position = state.Vec3{}
	w.setMoveIntent(1, 0)

	w.advancePlayer(frameDt)

	want := playerMoveSpeed * frameDt
	if math.Abs(w.player.Position.X-want) > 1e-9 {
		t.Fatalf("expected x %f, got %f", want, w.player.Position.X)
	}
}

func TestObstacleBlocksButAllowsSliding(t *testing.T) {
	w := newTestWorld(t)
	w.cityObstacles = []obstacleRect{{MinX: 1, MaxX: 7, MinZ: -3, MaxZ: 3}}
	w.player.Position = state.Vec3{X: 0, Z: 0}
	w.setMoveIntent(1, 1)

	w.advancePlayer(frameDt)

	if w.player.Position.X != 0 {
		t.Fatalf("walked into the building: x = %f", w.player.Position.X)
	}
	if w.player.Position.Z <= 0 {
		t.Fatalf("wall stopped the free axis: z = %f", w.player.Position.Z)
	}
}

func TestCityBoundsClampPosition(t *testing.T) {
	w := newTestWorld(t)
	w.cityObstacles = nil
	edge := worldgen.WorldHalf - playerHalf
	w.player.Position = state.Vec3{X: edge, Z: 0}
	w.setMoveIntent(1, 0)

	w.advancePlayer(frameDt)

	if w.player.Position.X != edge {
		t.Fatalf("escaped the city: x = %f", w.player.Position.X)
	}
}

func TestInteriorBoundsAreTighter(t *testing.T) {
	w := newTestWorld(t)
	house := buyHouse(t, w)
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)
	if w.phase != PhaseHomeView {
		t.Fatalf("expected home view, got %s", w.phase)
	}

	w.setMoveIntent(0, 1)
	for i := 0; i < 100; i++ {
		w.advancePlayer(frameDt)
	}

	if w.player.Position.Z != interiorHalf {
		t.Fatalf("escaped the interior: z = %f", w.player.Position.Z)
	}
}

func TestNoMovementInMenuAndTerminalScenes(t *testing.T) {
	w := newTestWorld(t)
	w.setMoveIntent(1, 0)

	for _, phase := range []GamePhase{PhaseRegionSelect, PhaseCharacterSelect, PhaseJail, PhaseGameOver} {
		w.phase = phase
		w.player.Position = state.Vec3{}
		w.advancePlayer(frameDt)
		if w.player.Position != (state.Vec3{}) {
			t.Fatalf("player moved during %s", phase)
		}
	}
}
