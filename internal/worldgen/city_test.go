package worldgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crownridge/server/internal/state"
)

func generateTestLayout(seed string) Layout {
	return Generate(RegionRiverside, NewDeterministicRNG(seed, "city:riverside"))
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a := generateTestLayout("alpha")
	b := generateTestLayout("alpha")
	c := generateTestLayout("beta")

	assert.Equal(t, a, b, "same seed must reproduce the layout exactly")
	assert.NotEqual(t, a, c, "different seeds should diverge")
}

func TestGenerateCoversTheFullGrid(t *testing.T) {
	layout := generateTestLayout("alpha")

	assert.Len(t, layout.Buildings, CitySize*CitySize, "one entry per tile")
	for _, b := range layout.Buildings {
		assert.LessOrEqual(t, math.Abs(b.Position.X), float64(WorldHalf))
		assert.LessOrEqual(t, math.Abs(b.Position.Z), float64(WorldHalf))
	}
}

func TestGenerateRoadPattern(t *testing.T) {
	layout := generateTestLayout("alpha")

	fixed := make(map[[2]int]bool, len(fixedSpots))
	for _, spot := range fixedSpots {
		fixed[[2]int{spot.x, spot.z}] = true
	}

	for _, b := range layout.Buildings {
		x := int(b.Position.X / TileSize)
		z := int(b.Position.Z / TileSize)
		if fixed[[2]int{x, z}] {
			assert.NotEqual(t, state.BuildingRoad, b.Kind, "fixed spot paved over at %d,%d", x, z)
			continue
		}
		onGridLine := x%2 == 0 || z%2 == 0
		isRoad := b.Kind == state.BuildingRoad
		assert.Equal(t, onGridLine, isRoad, "road pattern broken at %d,%d", x, z)
	}
}

func TestGeneratePlacesFixedBuildings(t *testing.T) {
	layout := generateTestLayout("alpha")

	kinds := make(map[state.BuildingKind]int)
	for _, b := range layout.Buildings {
		kinds[b.Kind]++
	}
	for _, spot := range fixedSpots {
		assert.Equal(t, 1, kinds[spot.kind], "expected exactly one %s", spot.kind)
	}
}

func TestGenerateSpawnTable(t *testing.T) {
	layout := generateTestLayout("alpha")

	assert.Equal(t, state.Vec3{X: 45, Z: 45}, layout.Spawns.Vent)
	assert.Equal(t, state.Vec3{X: -50, Z: 50}, layout.Spawns.STStation)
	assert.Equal(t, state.Vec3{X: 50, Z: 50}, layout.Spawns.MSStation)
	assert.Equal(t, state.Vec3{X: -50, Z: 20}, layout.Spawns.RoyalCarriage)
}

func TestGenerateLotsCarryPrices(t *testing.T) {
	layout := generateTestLayout("alpha")

	prices := map[state.BuildingKind]int{
		state.BuildingHouseL1: housePriceL1,
		state.BuildingHouseL2: housePriceL2,
		state.BuildingHouseL3: housePriceL3,
		state.BuildingStore:   storePrice,
	}
	for _, b := range layout.Buildings {
		want, priced := prices[b.Kind]
		if !priced {
			continue
		}
		require.NotNil(t, b.Lot, "%s without a lot", b.ID)
		assert.Equal(t, want, b.Lot.Price, "wrong price on %s", b.ID)
	}
}

func TestGenerateNPCsRosterShape(t *testing.T) {
	npcs := GenerateNPCs(200, NewDeterministicRNG("alpha", "npcs:riverside"))

	require.Len(t, npcs, 200)

	humans, dogs := 0, 0
	for i := range npcs {
		npc := &npcs[i]
		if npc.IsHuman() {
			humans++
			assert.Nil(t, npc.Dog, "NPC %s is both human and dog", npc.ID)
		} else {
			dogs++
			require.NotNil(t, npc.Dog, "NPC %s has no traits at all", npc.ID)
			assert.NotEmpty(t, npc.Dog.Breed)
		}
		assert.NotEmpty(t, npc.Name)
		limit := (CitySize*TileSize - 2*SpawnInset) / 2
		assert.LessOrEqual(t, math.Abs(npc.Position.X), limit)
		assert.LessOrEqual(t, math.Abs(npc.Position.Z), limit)
	}
	// 60/40 split with a wide tolerance for a 200-entry sample.
	assert.Greater(t, humans, 80)
	assert.Greater(t, dogs, 40)
}

func TestGenerateNPCsIsDeterministic(t *testing.T) {
	a := GenerateNPCs(50, NewDeterministicRNG("alpha", "npcs:riverside"))
	b := GenerateNPCs(50, NewDeterministicRNG("alpha", "npcs:riverside"))

	assert.Equal(t, a, b)
}

func TestPrisonersDressInBlack(t *testing.T) {
	npcs := GenerateNPCs(500, NewDeterministicRNG("alpha", "npcs:riverside"))

	prisoners := 0
	for i := range npcs {
		npc := &npcs[i]
		if npc.Target() != state.TargetPrisoner {
			continue
		}
		prisoners++
		assert.Equal(t, "#000000", npc.Human.Appearance.TopColor)
		assert.Equal(t, "#000000", npc.Human.Appearance.BottomColor)
		assert.Equal(t, state.TopTShirt, npc.Human.Appearance.TopType)
		assert.Equal(t, state.BottomPantsLong, npc.Human.Appearance.BottomType)
	}
	require.NotZero(t, prisoners, "500 rolls produced no prisoner")
}

func TestAssignHomesLinksOccupiedHouses(t *testing.T) {
	layout := generateTestLayout("alpha")
	npcs := GenerateNPCs(50, NewDeterministicRNG("alpha", "npcs:riverside"))

	linked := AssignHomes(layout.Buildings, npcs)
	require.NotZero(t, linked, "no homes assigned at all")

	housed := 0
	for i := range npcs {
		npc := &npcs[i]
		if npc.Human == nil || npc.Human.HomeBuildingID == "" {
			continue
		}
		housed++
		var home *state.Building
		for j := range layout.Buildings {
			if layout.Buildings[j].ID == npc.Human.HomeBuildingID {
				home = &layout.Buildings[j]
				break
			}
		}
		require.NotNil(t, home, "NPC %s linked to a missing building", npc.ID)
		assert.True(t, home.IsHouse())
		assert.Equal(t, npc.ID, home.Lot.OccupantID, "link is not mutual")
	}
	assert.Equal(t, linked, housed)
}

func TestAssignHomesNeverLinksDogs(t *testing.T) {
	layout := generateTestLayout("alpha")
	npcs := GenerateNPCs(50, NewDeterministicRNG("alpha", "npcs:riverside"))
	AssignHomes(layout.Buildings, npcs)

	for i := range npcs {
		if npcs[i].Dog == nil {
			continue
		}
		for j := range layout.Buildings {
			lot := layout.Buildings[j].Lot
			if lot != nil {
				assert.NotEqual(t, npcs[i].ID, lot.OccupantID, "a dog got a house")
			}
		}
	}
}
