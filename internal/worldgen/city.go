// Package worldgen produces the static city layout and the NPC roster
// consumed once at region selection. Generation is a pure function of
// (region, seed): the named special buildings sit at fixed tile offsets in
// every region and only the lot assignment of the remaining tiles is drawn
// from the seeded stream.
package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	"crownridge/server/internal/state"
)

// Region selects the cosmetic ground palette. Layout geometry is identical
// across regions.
type Region string

const (
	RegionRiverside Region = "riverside"
	RegionDesert    Region = "desert"
	RegionSwamp     Region = "swamp"
)

// ParseRegion validates a region string received from the client.
func ParseRegion(value string) (Region, bool) {
	switch Region(value) {
	case RegionRiverside, RegionDesert, RegionSwamp:
		return Region(value), true
	default:
		return "", false
	}
}

const (
	// TileSize and CitySize define the 12x12 grid of 10-unit tiles.
	TileSize = 10.0
	CitySize = 12

	// WorldHalf is the half-extent of the city ground plane.
	WorldHalf = CitySize * TileSize / 2

	// SpawnInset keeps generated NPCs away from the outermost tiles.
	SpawnInset = 10.0

	housePriceL1 = 50
	housePriceL2 = 100
	housePriceL3 = 200
	storePrice   = 300
)

// SpawnPoints are the fixed world positions of the named special buildings,
// plus the work-exit vent. Exits from sub-scenes resolve against this table.
type SpawnPoints struct {
	Sanctuary     state.Vec3 `json:"sanctuary"`
	Vent          state.Vec3 `json:"vent"`
	Cemetery      state.Vec3 `json:"cemetery"`
	Rental        state.Vec3 `json:"rental"`
	CarWash       state.Vec3 `json:"carWash"`
	CarFactory    state.Vec3 `json:"carFactory"`
	STStation     state.Vec3 `json:"stStation"`
	MSStation     state.Vec3 `json:"msStation"`
	RoyalCarriage state.Vec3 `json:"royalCarriage"`
}

// RoadTile is a ground overlay the renderer draws; it has no collision.
type RoadTile struct {
	Position state.Vec3 `json:"position"`
	Rotation float64    `json:"rotation"`
}

// Layout is the full static city handed to the world constructor.
type Layout struct {
	Region    Region           `json:"region"`
	Buildings []state.Building `json:"buildings"`
	Roads     []RoadTile       `json:"roads"`
	Spawns    SpawnPoints      `json:"spawns"`
}

// fixed tile offsets for the named buildings, identical in every region
type fixedSpot struct {
	x, z int
	kind state.BuildingKind
}

var fixedSpots = []fixedSpot{
	{-4, -3, state.BuildingPetCemetery},
	{3, -3, state.BuildingCarRental},
	{-3, 3, state.BuildingCarWash},
	{3, 3, state.BuildingCarFactory},
	{-5, 5, state.BuildingSTStation},
	{5, 5, state.BuildingMSStation},
	{-5, 2, state.BuildingRoyalCarriage},
}

// Generate lays out the city grid for a region. The rng decides only lot
// kinds, rotations, and occupancy; pass NewDeterministicRNG(seed, "city")
// for a reproducible world.
func Generate(region Region, rng *rand.Rand) Layout {
	layout := Layout{
		Region: region,
		Spawns: SpawnPoints{Vent: state.Vec3{X: 45, Z: 45}},
	}

	fixed := make(map[[2]int]state.BuildingKind, len(fixedSpots))
	for _, spot := range fixedSpots {
		fixed[[2]int{spot.x, spot.z}] = spot.kind
	}

	for x := -CitySize / 2; x < CitySize/2; x++ {
		for z := -CitySize / 2; z < CitySize/2; z++ {
			pos := state.Vec3{X: float64(x) * TileSize, Z: float64(z) * TileSize}

			if kind, ok := fixed[[2]int{x, z}]; ok {
				layout.Buildings = append(layout.Buildings, state.Building{
					ID:       fmt.Sprintf("%s-%d-%d", kind, x, z),
					Kind:     kind,
					Position: pos,
				})
				layout.recordSpawn(kind, pos)
				continue
			}

			if x%2 == 0 || z%2 == 0 {
				layout.Roads = append(layout.Roads, RoadTile{Position: state.Vec3{X: pos.X, Y: 0.1, Z: pos.Z}})
				layout.Buildings = append(layout.Buildings, state.Building{
					ID:       fmt.Sprintf("road-%d-%d", x, z),
					Kind:     state.BuildingRoad,
					Position: pos,
				})
				continue
			}

			layout.Buildings = append(layout.Buildings, generateLot(x, z, pos, &layout.Spawns, rng))
		}
	}

	return layout
}

func (l *Layout) recordSpawn(kind state.BuildingKind, pos state.Vec3) {
	switch kind {
	case state.BuildingPetCemetery:
		l.Spawns.Cemetery = pos
	case state.BuildingCarRental:
		l.Spawns.Rental = pos
	case state.BuildingCarWash:
		l.Spawns.CarWash = pos
	case state.BuildingCarFactory:
		l.Spawns.CarFactory = pos
	case state.BuildingSTStation:
		l.Spawns.STStation = pos
	case state.BuildingMSStation:
		l.Spawns.MSStation = pos
	case state.BuildingRoyalCarriage:
		l.Spawns.RoyalCarriage = pos
	}
}

// generateLot assigns a non-road tile by fixed cumulative probability bands:
// 5% hotel, 5% store, 5% sanctuary, 20% tier-3 house, 25% tier-2, 40% tier-1.
func generateLot(x, z int, pos state.Vec3, spawns *SpawnPoints, rng *rand.Rand) state.Building {
	roll := rng.Float64()
	rotation := float64(rng.Intn(4)) * math.Pi / 2

	building := state.Building{
		ID:       fmt.Sprintf("bld-%d-%d", x, z),
		Position: pos,
		Rotation: rotation,
	}

	switch {
	case roll > 0.95:
		building.Kind = state.BuildingHotel
	case roll > 0.90:
		building.Kind = state.BuildingStore
		building.Lot = &state.Lot{Price: storePrice}
	case roll > 0.85:
		building.Kind = state.BuildingPetSanctuary
		spawns.Sanctuary = pos
	case roll > 0.65:
		building.Kind = state.BuildingHouseL3
		building.Lot = &state.Lot{Price: housePriceL3, Occupied: rng.Float64() > 0.3}
	case roll > 0.4:
		building.Kind = state.BuildingHouseL2
		building.Lot = &state.Lot{Price: housePriceL2, Occupied: rng.Float64() > 0.3}
	default:
		building.Kind = state.BuildingHouseL1
		building.Lot = &state.Lot{Price: housePriceL1, Occupied: rng.Float64() > 0.3}
	}

	return building
}

// AssignHomes links the first N occupied houses to the first N generated
// human NPCs, in generation order. Excess humans stay homeless and only
// wander. Mutates both slices in place and reports how many links were made.
func AssignHomes(buildings []state.Building, npcs []state.NPCState) int {
	houses := make([]*state.Building, 0)
	for i := range buildings {
		b := &buildings[i]
		if b.IsHouse() && b.Lot != nil && b.Lot.Occupied {
			houses = append(houses, b)
		}
	}

	linked := 0
	for i := range npcs {
		npc := &npcs[i]
		if npc.Human == nil {
			continue
		}
		if linked >= len(houses) {
			break
		}
		house := houses[linked]
		house.Lot.OccupantID = npc.ID
		npc.Human.HomeBuildingID = house.ID
		linked++
	}
	return linked
}
