package server

import (
	"context"
	"encoding/json"
	"fmt"

	"crownridge/server/internal/state"
	"crownridge/server/internal/worldgen"
	"crownridge/server/logging/simulation"
)

// exitOffset places the avatar a short walk in front of a building when a
// sub-scene exits back to the city.
var exitOffset = state.Vec3{Z: 8}

// setPhase records a transition and publishes it. All phase writes funnel
// through here.
func (w *World) setPhase(ctx context.Context, to GamePhase) {
	if w.phase == to {
		return
	}
	from := w.phase
	w.phase = to
	simulation.PhaseChanged(ctx, w.publisher, w.frame, simulation.PhaseChangedPayload{
		From: string(from),
		To:   string(to),
	})
}

// selectRegion generates the city and roster for the chosen region and moves
// on to the character customizer. Only legal from region select.
func (w *World) selectRegion(ctx context.Context, value string, npcCount int) {
	if w.phase != PhaseRegionSelect {
		return
	}
	region, ok := worldgen.ParseRegion(value)
	if !ok {
		return
	}

	layout := worldgen.Generate(region, worldgen.NewDeterministicRNG(w.seed, "city:"+value))
	npcs := worldgen.GenerateNPCs(npcCount, worldgen.NewDeterministicRNG(w.seed, "npcs:"+value))
	worldgen.AssignHomes(layout.Buildings, npcs)

	w.region = region
	w.layout = &layout
	w.npcs = make([]*state.NPCState, len(npcs))
	for i := range npcs {
		w.npcs[i] = &npcs[i]
	}
	w.cityObstacles = buildCityObstacles(&layout)
	w.logger.Printf("generated region %s: %d buildings, %d npcs", value, len(layout.Buildings), len(npcs))

	w.setPhase(ctx, PhaseCharacterSelect)
}

// setAppearance overwrites the avatar's cosmetic record from raw client
// JSON. Unknown fields are dropped; a malformed payload leaves the current
// appearance untouched.
func (w *World) setAppearance(raw []byte) {
	if w.phase != PhaseCharacterSelect {
		return
	}
	var appearance state.Appearance
	if err := json.Unmarshal(raw, &appearance); err != nil {
		return
	}
	w.player.Appearance = appearance
}

// confirmCharacter starts the run proper.
func (w *World) confirmCharacter(ctx context.Context) {
	if w.phase != PhaseCharacterSelect {
		return
	}
	w.player.Position = state.Vec3{}
	w.setPhase(ctx, PhasePlaying)
	w.setMessage("Welcome to Crownridge! Find the hotel to settle in.", state.MoodExcited)
}

// enterScene moves into a sub-scene: position resets to the scene-local
// origin and, except for the two job stations, the active vehicle is parked.
func (w *World) enterScene(ctx context.Context, to GamePhase) {
	if to != PhaseSTStation && to != PhaseMSStation {
		w.activeVehicleID = ""
	}
	w.player.Position = state.Vec3{}
	w.player.IntentX, w.player.IntentZ = 0, 0
	w.setPhase(ctx, to)
}

// enterHome validates proximity and ownership before entering the house
// interior.
func (w *World) enterHome(ctx context.Context, b *state.Building) {
	if w.phase != PhasePlaying || b == nil || !b.IsHouse() {
		return
	}
	if !w.ownsBuilding(b.ID) || !w.nearBuilding(b) {
		return
	}
	w.enterScene(ctx, PhaseHomeView)
	w.setMessage("Home sweet home.", state.MoodExcited)
}

// visitFriend enters a befriended NPC's house. The friend must have a home
// and the avatar must be standing at it.
func (w *World) visitFriend(ctx context.Context, friendID string) {
	if w.phase != PhasePlaying {
		return
	}
	friend := w.findFriend(friendID)
	if friend == nil || friend.Human == nil || friend.Human.HomeBuildingID == "" {
		return
	}
	home := w.findBuilding(friend.Human.HomeBuildingID)
	if !w.nearBuilding(home) {
		return
	}
	w.visitingFriend = friendID
	w.enterScene(ctx, PhaseFriendHouse)
	w.setMessage(fmt.Sprintf("Visiting %s's place.", friend.Name), state.MoodExcited)
}

// enterStation enters a job station or the royal carriage chamber. Stations
// require the matching job; driving in is allowed, so the vehicle persists.
func (w *World) enterStation(ctx context.Context, b *state.Building) {
	if w.phase != PhasePlaying || b == nil || !w.nearBuilding(b) {
		return
	}
	switch b.Kind {
	case state.BuildingSTStation:
		if w.currentJob != JobST {
			w.setMessage("The ST station only admits its own agents.", state.MoodEmbarrassed)
			return
		}
		w.enterScene(ctx, PhaseSTStation)
		w.setMessage("Reporting for ST duty.", state.MoodFocused)
	case state.BuildingMSStation:
		if w.currentJob != JobMS {
			w.setMessage("The MS station only admits its own agents.", state.MoodEmbarrassed)
			return
		}
		w.enterScene(ctx, PhaseMSStation)
		w.setMessage("Reporting for MS duty.", state.MoodFocused)
	case state.BuildingRoyalCarriage:
		w.enterScene(ctx, PhaseRoyalChamber)
		w.setMessage("The royal chamber glitters with gold.", state.MoodExcited)
	}
}

// exitScene returns to the city from any sub-scene. The re-entry position is
// looked up per scene: the first owned house for home, the friend's house
// for a visit, and the spawn table for the stations and the chamber.
func (w *World) exitScene(ctx context.Context) {
	spawn := state.Vec3{}

	switch w.phase {
	case PhaseHomeView:
		if house := w.firstOwnedHouse(); house != nil {
			spawn = house.Position.Add(exitOffset)
		}
	case PhaseFriendHouse:
		if friend := w.findFriend(w.visitingFriend); friend != nil && friend.Human != nil {
			if home := w.findBuilding(friend.Human.HomeBuildingID); home != nil {
				spawn = home.Position.Add(exitOffset)
			}
		}
		w.visitingFriend = ""
	case PhaseSTStation:
		if w.layout != nil {
			spawn = w.layout.Spawns.STStation.Add(exitOffset)
		}
	case PhaseMSStation:
		if w.layout != nil {
			spawn = w.layout.Spawns.MSStation.Add(exitOffset)
		}
	case PhaseRoyalChamber:
		if w.layout != nil {
			spawn = w.layout.Spawns.RoyalCarriage.Add(exitOffset)
		}
	default:
		return
	}

	w.player.Position = spawn
	w.player.IntentX, w.player.IntentZ = 0, 0
	w.setPhase(ctx, PhasePlaying)
}

// enterJail handles being spotted in the golden carriage. The phase guard
// makes the per-frame detection check idempotent.
func (w *World) enterJail(ctx context.Context) {
	if w.phase != PhasePlaying {
		return
	}
	w.enterScene(ctx, PhaseJail)
	w.setMessage("You were seen! Royal Guards captured you.", state.MoodLackConfidence)
}
