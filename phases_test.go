package server

import (
	"context"
	"testing"

	"crownridge/server/internal/state"
	"crownridge/server/internal/telemetry"
	"crownridge/server/internal/worldgen"
	"crownridge/server/logging"
	"crownridge/server/logging/simulation"
)

func TestSelectRegionGeneratesCityAndRoster(t *testing.T) {
	w := NewWorld("test-seed", logging.NopPublisher(), telemetry.NopLogger())

	w.selectRegion(context.Background(), "riverside", 25)

	if w.phase != PhaseCharacterSelect {
		t.Fatalf("expected character select, got %s", w.phase)
	}
	if w.layout == nil || len(w.layout.Buildings) == 0 {
		t.Fatalf("no city generated")
	}
	if len(w.npcs) != 25 {
		t.Fatalf("expected 25 NPCs, got %d", len(w.npcs))
	}
	if w.region != worldgen.RegionRiverside {
		t.Fatalf("region not recorded: %s", w.region)
	}
}

func TestSelectRegionRejectsUnknownRegion(t *testing.T) {
	w := NewWorld("test-seed", logging.NopPublisher(), telemetry.NopLogger())

	w.selectRegion(context.Background(), "atlantis", 25)

	if w.phase != PhaseRegionSelect || w.layout != nil {
		t.Fatalf("unknown region accepted")
	}
}

func TestSelectRegionOnlyFromRegionSelect(t *testing.T) {
	w := newTestWorld(t)
	layout := w.layout

	w.selectRegion(context.Background(), "desert", 25)

	if w.layout != layout {
		t.Fatalf("mid-run region select regenerated the city")
	}
}

func TestSetAppearanceOnlyDuringCharacterSelect(t *testing.T) {
	w := NewWorld("test-seed", logging.NopPublisher(), telemetry.NopLogger())
	w.selectRegion(context.Background(), "riverside", 25)

	w.setAppearance([]byte(`{"skinColor":"#aa8866","hairStyle":"long"}`))
	if w.player.Appearance.SkinColor != "#aa8866" {
		t.Fatalf("appearance not applied: %+v", w.player.Appearance)
	}

	// Malformed payloads leave the record untouched.
	w.setAppearance([]byte(`{not json`))
	if w.player.Appearance.SkinColor != "#aa8866" {
		t.Fatalf("malformed payload clobbered appearance")
	}

	w.confirmCharacter(context.Background())
	w.setAppearance([]byte(`{"skinColor":"#000000"}`))
	if w.player.Appearance.SkinColor != "#aa8866" {
		t.Fatalf("appearance mutated after confirmation")
	}
}

func TestConfirmCharacterStartsAtOrigin(t *testing.T) {
	w := newTestWorld(t)

	if w.player.Position != (state.Vec3{}) {
		t.Fatalf("expected origin spawn, got %+v", w.player.Position)
	}
	if w.phase != PhasePlaying {
		t.Fatalf("expected playing, got %s", w.phase)
	}
}

func TestPhaseChangePublishesTransition(t *testing.T) {
	recorder := &eventRecorder{}
	w := NewWorld("test-seed", recorder, telemetry.NopLogger())

	w.selectRegion(context.Background(), "riverside", 25)
	w.confirmCharacter(context.Background())

	events := recorder.byType(simulation.EventPhaseChanged)
	if len(events) != 2 {
		t.Fatalf("expected 2 phase events, got %d", len(events))
	}
}

func TestEnterHomeRequiresOwnershipAndProximity(t *testing.T) {
	w := newTestWorld(t)
	house := findBuildingByKind(t, w, state.BuildingHouseL1)

	// Near an unowned house buys it instead of entering.
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)
	if w.phase != PhasePlaying {
		t.Fatalf("entered a house on the purchase click")
	}

	// Second interaction enters.
	w.interactBuilding(context.Background(), house.ID)
	if w.phase != PhaseHomeView {
		t.Fatalf("expected home view, got %s", w.phase)
	}
}

func TestExitHomeSpawnsOutsideOwnedHouse(t *testing.T) {
	w := newTestWorld(t)
	house := buyHouse(t, w)
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)

	w.exitScene(context.Background())

	if w.phase != PhasePlaying {
		t.Fatalf("expected playing, got %s", w.phase)
	}
	if want := house.Position.Add(exitOffset); w.player.Position != want {
		t.Fatalf("expected %+v, got %+v", want, w.player.Position)
	}
}

func TestExitSceneNoopFromCity(t *testing.T) {
	w := newTestWorld(t)
	w.player.Position = state.Vec3{X: 12, Z: -4}

	w.exitScene(context.Background())

	if w.player.Position != (state.Vec3{X: 12, Z: -4}) {
		t.Fatalf("city exit moved the player")
	}
}

func TestEnterSceneParksVehicleExceptStations(t *testing.T) {
	w := newTestWorld(t)
	vehicle := w.addVehicle(state.VehicleSedan, "#fff", false, false)
	w.activeVehicleID = vehicle.ID

	house := buyHouse(t, w)
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)

	if w.activeVehicleID != "" {
		t.Fatalf("vehicle followed the player indoors")
	}
}

func TestStationKeepsActiveVehicle(t *testing.T) {
	w := newTestWorld(t)
	w.selectJob("st")
	vehicle := w.addVehicle(state.VehicleSedan, "#fff", true, false)
	w.activeVehicleID = vehicle.ID

	station := findBuildingByKind(t, w, state.BuildingSTStation)
	moveTo(w, station)
	w.interactBuilding(context.Background(), station.ID)

	if w.phase != PhaseSTStation {
		t.Fatalf("expected ST station, got %s", w.phase)
	}
	if w.activeVehicleID != vehicle.ID {
		t.Fatalf("station entry parked the vehicle")
	}
}

func TestStationRejectsWrongJob(t *testing.T) {
	w := newTestWorld(t)
	w.selectJob("ms")

	station := findBuildingByKind(t, w, state.BuildingSTStation)
	moveTo(w, station)
	w.interactBuilding(context.Background(), station.ID)

	if w.phase != PhasePlaying {
		t.Fatalf("MS agent admitted to the ST station")
	}
}

func TestRoyalChamberAdmitsAnyone(t *testing.T) {
	w := newTestWorld(t)
	chamber := findBuildingByKind(t, w, state.BuildingRoyalCarriage)
	moveTo(w, chamber)

	w.interactBuilding(context.Background(), chamber.ID)

	if w.phase != PhaseRoyalChamber {
		t.Fatalf("expected royal chamber, got %s", w.phase)
	}
}

func TestExitStationUsesSpawnTable(t *testing.T) {
	w := newTestWorld(t)
	chamber := findBuildingByKind(t, w, state.BuildingRoyalCarriage)
	moveTo(w, chamber)
	w.interactBuilding(context.Background(), chamber.ID)

	w.exitScene(context.Background())

	want := w.layout.Spawns.RoyalCarriage.Add(exitOffset)
	if w.player.Position != want {
		t.Fatalf("expected %+v, got %+v", want, w.player.Position)
	}
}

func TestVisitFriendRequiresHomeAndProximity(t *testing.T) {
	w := newTestWorld(t)
	house := findBuildingByKind(t, w, state.BuildingHouseL1)
	npc := plantNPC(w, "npc-neighbor", state.TargetNone)
	npc.Human.HomeBuildingID = house.ID
	w.interactNPC(context.Background(), "npc-neighbor")

	// Too far away.
	w.player.Position = house.Position.Add(state.Vec3{X: interactRadius + 5})
	w.visitFriend(context.Background(), "npc-neighbor")
	if w.phase != PhasePlaying {
		t.Fatalf("visit allowed from across the map")
	}

	moveTo(w, house)
	w.visitFriend(context.Background(), "npc-neighbor")
	if w.phase != PhaseFriendHouse {
		t.Fatalf("expected friend house view, got %s", w.phase)
	}
	if w.visitingFriend != "npc-neighbor" {
		t.Fatalf("visiting friend not recorded")
	}

	w.exitScene(context.Background())
	if want := house.Position.Add(exitOffset); w.player.Position != want {
		t.Fatalf("expected %+v, got %+v", want, w.player.Position)
	}
	if w.visitingFriend != "" {
		t.Fatalf("visit record not cleared on exit")
	}
}

func TestJailClearsVehicleAndIsIdempotent(t *testing.T) {
	recorder := &eventRecorder{}
	w := newTestWorldWithRecorder(t, recorder)
	vehicle := w.addVehicle(state.VehicleGoldenCarriage, "#ffd700", false, false)
	w.activeVehicleID = vehicle.ID

	w.enterJail(context.Background())
	if w.phase != PhaseJail {
		t.Fatalf("expected jail, got %s", w.phase)
	}
	if w.activeVehicleID != "" {
		t.Fatalf("vehicle not confiscated on arrest")
	}

	before := len(recorder.byType(simulation.EventPhaseChanged))
	w.enterJail(context.Background())
	if got := len(recorder.byType(simulation.EventPhaseChanged)); got != before {
		t.Fatalf("repeat arrest published another transition")
	}

	// Jail is terminal until a new run starts.
	w.exitScene(context.Background())
	if w.phase != PhaseJail {
		t.Fatalf("player escaped jail")
	}
}

func TestStoryHotelInteractionFlagged(t *testing.T) {
	w := newTestWorld(t)
	hotel := placeHotel(w)
	moveTo(w, hotel)

	if !w.interactBuilding(context.Background(), hotel.ID) {
		t.Fatalf("hotel interaction did not request a story")
	}
	if w.mood != state.MoodFocused {
		t.Fatalf("expected focused mood, got %s", w.mood)
	}
}

func TestWorkBlocksInteractions(t *testing.T) {
	w := newTestWorld(t)
	store := placeStore(w)
	moveTo(w, store)
	w.interactBuilding(context.Background(), store.ID)
	w.startWork(store.ID)
	if !w.working {
		t.Fatalf("shift did not start")
	}

	house := findBuildingByKind(t, w, state.BuildingHouseL1)
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)
	if w.ownsBuilding(house.ID) {
		t.Fatalf("bought a house mid-shift")
	}
}
