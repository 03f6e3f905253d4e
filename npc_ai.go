package server

import (
	"context"
	"math"

	"crownridge/server/internal/state"
)

// advanceNPCs runs one behavior frame for the whole roster. NPCs only act in
// the open city; sub-scenes freeze them in place.
func (w *World) advanceNPCs(dt float64) {
	if w.phase != PhasePlaying {
		return
	}
	for _, npc := range w.npcs {
		if npc.IsFriend && npc.ID == w.followingFriend {
			w.stepFollower(npc, dt)
			continue
		}
		w.stepWanderer(npc, dt)
	}
}

// stepFollower walks a summoned friend toward the player, idling inside the
// personal-space threshold so it never crowds or orbits the avatar.
func (w *World) stepFollower(npc *state.NPCState, dt float64) {
	npc.HasTarget = false
	if npc.Position.PlanarDistanceTo(w.player.Position) <= followThreshold {
		return
	}
	w.stepToward(npc, w.player.Position, dt)
}

// stepWanderer walks an NPC to its wander target, drawing a new one from
// the behavior stream whenever it arrives.
func (w *World) stepWanderer(npc *state.NPCState, dt float64) {
	if !npc.HasTarget || npc.Position.PlanarDistanceTo(npc.WanderTarget) <= wanderArrive {
		npc.WanderTarget = state.Vec3{
			X: (w.rng.Float64() - 0.5) * 2 * wanderHalf,
			Z: (w.rng.Float64() - 0.5) * 2 * wanderHalf,
		}
		npc.HasTarget = true
	}
	w.stepToward(npc, npc.WanderTarget, dt)
}

// stepToward moves an NPC one frame toward a point and turns it to face its
// travel direction. Movement inside the epsilon is suppressed so arrivals
// do not jitter.
func (w *World) stepToward(npc *state.NPCState, target state.Vec3, dt float64) {
	delta := target.Sub(npc.Position)
	delta.Y = 0
	if math.Hypot(delta.X, delta.Z) <= moveEpsilon {
		return
	}

	dir := delta.Normalized()
	npc.Position = npc.Position.Add(dir.Scale(npcMoveSpeed * dt))
	npc.Rotation = turnToward(npc.Rotation, math.Atan2(dir.X, dir.Z), npcFacingLerpRate*dt)
}

// turnToward lerps a heading along the shortest angular arc, clamped so a
// single frame never overshoots the target facing.
func turnToward(current, target, maxStep float64) float64 {
	diff := math.Mod(target-current, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff < -math.Pi {
		diff += 2 * math.Pi
	}
	if diff > maxStep {
		diff = maxStep
	} else if diff < -maxStep {
		diff = -maxStep
	}
	return current + diff
}

// detectRoyalSpotting checks whether any human NPC can see the player while
// driving after the royal carriage has been acquired. Runs every frame; the
// jail transition's phase guard keeps repeated hits harmless.
func (w *World) detectRoyalSpotting(ctx context.Context) {
	if w.phase != PhasePlaying || !w.hasRoyalSystem {
		return
	}
	if w.activeVehicle() == nil {
		return
	}
	for _, npc := range w.npcs {
		if !npc.IsHuman() {
			continue
		}
		if npc.Position.PlanarDistanceTo(w.player.Position) < detectionRadius {
			w.enterJail(ctx)
			return
		}
	}
}
