// Package server implements the Crownridge game-state and simulation engine:
// the world clock and rent economy, the phase state machine, the transaction
// rules, and the per-frame NPC behavior. The Hub in this package is the only
// writer of world state; everything outside submits commands and reads
// snapshots.
package server

import (
	"math/rand"
	"time"

	"crownridge/server/internal/state"
	"crownridge/server/internal/telemetry"
	"crownridge/server/internal/worldgen"
	"crownridge/server/logging"
)

// GamePhase is the state machine's current state. Exactly one is active and
// it fully determines which scene exists and which commands are legal.
type GamePhase string

const (
	PhaseRegionSelect    GamePhase = "region_select"
	PhaseCharacterSelect GamePhase = "character_select"
	PhasePlaying         GamePhase = "playing"
	PhaseHomeView        GamePhase = "home_view"
	PhaseFriendHouse     GamePhase = "friend_house_view"
	PhaseSTStation       GamePhase = "st_station_view"
	PhaseMSStation       GamePhase = "ms_station_view"
	PhaseRoyalChamber    GamePhase = "royal_chamber_view"
	PhaseJail            GamePhase = "jail_view"
	PhaseGameOver        GamePhase = "game_over"
)

// JobType is the currently selected covert job, if any.
type JobType string

const (
	JobNone JobType = ""
	JobST   JobType = "st"
	JobMS   JobType = "ms"
)

// playerState tracks the avatar between frames. Intent is the latest
// normalized keyboard vector, integrated by the movement system.
type playerState struct {
	Position   state.Vec3
	IntentX    float64
	IntentZ    float64
	Appearance state.Appearance
}

// World is the single mutable game state. It is never accessed outside the
// Hub mutex; readers get deep-copied snapshots.
type World struct {
	seed      string
	rng       *rand.Rand
	publisher logging.Publisher
	logger    telemetry.Logger
	frame     uint64
	now       func() time.Time

	phase  GamePhase
	region worldgen.Region
	layout *worldgen.Layout

	// obstacle rects for the city scene, rebuilt at region select
	cityObstacles []obstacleRect

	timeOfDay     int
	dayCount      int
	rentPaidToday bool
	working       bool
	frozen        bool

	money int
	parts int

	player  playerState
	message string
	mood    state.Mood

	npcs     []*state.NPCState
	pets     []*state.Pet
	friends  []state.NPC
	vehicles []state.Vehicle

	activeVehicleID  string
	followingFriend  string
	visitingFriend   string
	ownedHouseIDs    []string
	recruitedIDs     []string
	furniture        []string
	currentJob       JobType
	capturedCount    int
	prisonerCount    int
	hasRoyalSystem   bool
	cartOpen         bool
	washingUntil     time.Time
	storyMode        bool
	storyModeExpires time.Time
}

// NewWorld returns a fresh world in region select, with the starting purse.
func NewWorld(seed string, publisher logging.Publisher, logger telemetry.Logger) *World {
	if seed == "" {
		seed = worldgen.DefaultSeed
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &World{
		seed:      seed,
		rng:       worldgen.NewDeterministicRNG(seed, "behavior"),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		phase:     PhaseRegionSelect,
		timeOfDay: startTimeOfDay,
		dayCount:  1,
		// Billing starts settled so the opening 07:00 never charges on day 1.
		rentPaidToday: true,
		money:         startMoney,
		parts:         startParts,
		mood:          state.MoodBored,
		player:        playerState{Appearance: state.DefaultAppearance()},
	}
}

// Phase reports the active phase.
func (w *World) Phase() GamePhase { return w.phase }

// clockSuspended reports whether the coarse tick must not advance time.
func (w *World) clockSuspended() bool {
	switch w.phase {
	case PhaseRegionSelect, PhaseCharacterSelect, PhaseJail, PhaseGameOver:
		return true
	default:
		return w.frozen
	}
}

func (w *World) ownsBuilding(id string) bool {
	for _, owned := range w.ownedHouseIDs {
		if owned == id {
			return true
		}
	}
	return false
}

func (w *World) recruited(id string) bool {
	for _, r := range w.recruitedIDs {
		if r == id {
			return true
		}
	}
	return false
}

func (w *World) ownsFurniture(id string) bool {
	for _, f := range w.furniture {
		if f == id {
			return true
		}
	}
	return false
}

func (w *World) findBuilding(id string) *state.Building {
	if w.layout == nil {
		return nil
	}
	for i := range w.layout.Buildings {
		if w.layout.Buildings[i].ID == id {
			return &w.layout.Buildings[i]
		}
	}
	return nil
}

func (w *World) findNPC(id string) (*state.NPCState, int) {
	for i, npc := range w.npcs {
		if npc.ID == id {
			return npc, i
		}
	}
	return nil, -1
}

func (w *World) findFriend(id string) *state.NPC {
	for i := range w.friends {
		if w.friends[i].ID == id {
			return &w.friends[i]
		}
	}
	return nil
}

func (w *World) findVehicle(id string) *state.Vehicle {
	for i := range w.vehicles {
		if w.vehicles[i].ID == id {
			return &w.vehicles[i]
		}
	}
	return nil
}

// activeVehicle returns the driven vehicle, or nil when on foot.
func (w *World) activeVehicle() *state.Vehicle {
	if w.activeVehicleID == "" {
		return nil
	}
	return w.findVehicle(w.activeVehicleID)
}

// firstOwnedHouse returns the earliest-purchased owned house, used as the
// exterior spawn when leaving the home scene.
func (w *World) firstOwnedHouse() *state.Building {
	for _, id := range w.ownedHouseIDs {
		if b := w.findBuilding(id); b != nil && b.IsHouse() {
			return b
		}
	}
	return nil
}

// nearBuilding reports whether the avatar is close enough to interact.
func (w *World) nearBuilding(b *state.Building) bool {
	if b == nil {
		return false
	}
	return w.player.Position.PlanarDistanceTo(b.Position) <= interactRadius
}

// isNight mirrors the renderer's lighting window (20:00–04:00).
func (w *World) isNight() bool {
	return w.timeOfDay >= nightStartMinutes || w.timeOfDay < nightEndMinutes
}

func (w *World) setMessage(text string, mood state.Mood) {
	w.message = text
	w.mood = mood
}

func (w *World) playerRef() logging.EntityRef {
	return logging.EntityRef{ID: "player", Kind: logging.EntityKindPlayer}
}
