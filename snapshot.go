package server

import (
	"time"

	"crownridge/server/internal/state"
	"crownridge/server/internal/worldgen"
)

// PlayerSnapshot is the wire-visible avatar state.
type PlayerSnapshot struct {
	Position   state.Vec3       `json:"position"`
	Appearance state.Appearance `json:"appearance"`
}

// Snapshot is a deep copy of the dynamic world state, safe for concurrent
// readers. The static layout travels separately in the join response because
// it never changes after region selection.
type Snapshot struct {
	Frame     uint64 `json:"frame"`
	Phase     string `json:"phase"`
	Region    string `json:"region,omitempty"`
	TimeOfDay int    `json:"timeOfDay"`
	DayCount  int    `json:"dayCount"`
	IsNight   bool   `json:"isNight"`
	Working   bool   `json:"working"`

	Money   int    `json:"money"`
	Parts   int    `json:"parts"`
	Message string `json:"message,omitempty"`
	Mood    string `json:"mood"`

	Player PlayerSnapshot `json:"player"`

	NPCs     []state.NPC     `json:"npcs"`
	Pets     []state.Pet     `json:"pets"`
	Friends  []state.NPC     `json:"friends"`
	Vehicles []state.Vehicle `json:"vehicles"`

	ActiveVehicleID   string   `json:"activeVehicleId,omitempty"`
	FollowingFriendID string   `json:"followingFriendId,omitempty"`
	VisitingFriendID  string   `json:"visitingFriendId,omitempty"`
	OwnedHouseIDs     []string `json:"ownedHouseIds"`
	RecruitedStoreIDs []string `json:"recruitedStoreIds"`
	Furniture         []string `json:"furniture"`

	CurrentJob     string `json:"currentJob,omitempty"`
	CapturedCount  int    `json:"capturedCount"`
	PrisonerCount  int    `json:"prisonerCount"`
	HasRoyalSystem bool   `json:"hasRoyalSystem"`
	CartOpen       bool   `json:"cartOpen"`
	Washing        bool   `json:"washing"`
	StoryMode      bool   `json:"storyMode"`
}

// snapshot builds a fresh copy under the hub lock. Nothing in the returned
// value aliases live world state.
func (w *World) snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Frame:     w.frame,
		Phase:     string(w.phase),
		Region:    string(w.region),
		TimeOfDay: w.timeOfDay,
		DayCount:  w.dayCount,
		IsNight:   w.isNight(),
		Working:   w.working,

		Money:   w.money,
		Parts:   w.parts,
		Message: w.message,
		Mood:    string(w.mood),

		Player: PlayerSnapshot{
			Position:   w.player.Position,
			Appearance: w.player.Appearance,
		},

		ActiveVehicleID:   w.activeVehicleID,
		FollowingFriendID: w.followingFriend,
		VisitingFriendID:  w.visitingFriend,
		OwnedHouseIDs:     append([]string(nil), w.ownedHouseIDs...),
		RecruitedStoreIDs: append([]string(nil), w.recruitedIDs...),
		Furniture:         append([]string(nil), w.furniture...),

		CurrentJob:     string(w.currentJob),
		CapturedCount:  w.capturedCount,
		PrisonerCount:  w.prisonerCount,
		HasRoyalSystem: w.hasRoyalSystem,
		CartOpen:       w.cartOpen,
		Washing:        !w.washingUntil.IsZero() && now.Before(w.washingUntil),
		StoryMode:      w.storyMode,
	}

	snap.NPCs = make([]state.NPC, 0, len(w.npcs))
	for _, npc := range w.npcs {
		snap.NPCs = append(snap.NPCs, npc.Snapshot())
	}
	snap.Pets = make([]state.Pet, 0, len(w.pets))
	for _, pet := range w.pets {
		snap.Pets = append(snap.Pets, *pet)
	}
	snap.Friends = make([]state.NPC, 0, len(w.friends))
	for i := range w.friends {
		snap.Friends = append(snap.Friends, w.friends[i].Clone())
	}
	snap.Vehicles = append([]state.Vehicle(nil), w.vehicles...)

	return snap
}

// LayoutSnapshot is the static city geometry, sent once after region
// selection. Nil until a region has been chosen.
type LayoutSnapshot struct {
	Region    string               `json:"region"`
	Buildings []state.Building     `json:"buildings"`
	Roads     []worldgen.RoadTile  `json:"roads"`
	Spawns    worldgen.SpawnPoints `json:"spawns"`
}

func (w *World) layoutSnapshot() *LayoutSnapshot {
	if w.layout == nil {
		return nil
	}
	snap := &LayoutSnapshot{
		Region: string(w.layout.Region),
		Roads:  append([]worldgen.RoadTile(nil), w.layout.Roads...),
		Spawns: w.layout.Spawns,
	}
	snap.Buildings = make([]state.Building, 0, len(w.layout.Buildings))
	for i := range w.layout.Buildings {
		snap.Buildings = append(snap.Buildings, w.layout.Buildings[i].Clone())
	}
	return snap
}
