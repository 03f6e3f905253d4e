package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	"crownridge/server/internal/state"
)

var humanNames = []string{"Alex", "Jordan", "Taylor", "Casey", "Jamie", "Sam", "Charlie", "Riley", "Avery", "Parker"}

var dogNames = []string{"Buddy", "Max", "Bella", "Daisy", "Rocky", "Luna", "Coco", "Bear"}

var dogBreeds = []string{"golden", "pug", "husky", "dalmatian"}

var hairColors = []string{"#1a1a1a", "#5d4037", "#eab308", "#fca5a5"}

var skinColors = []string{"#fce7f3", "#ffdbac", "#e0ac69", "#3e2723"}

var topColors = []string{"#ef4444", "#3b82f6", "#10b981", "#f59e0b"}

// GenerateNPCs builds the initial roster. Each entry is independently human
// (60%) or dog (40%); among humans 20% are flagged short (ST target), then
// 15% of the remainder prisoner (MS target). Spawn positions are uniform
// within the inset world bounds.
func GenerateNPCs(count int, rng *rand.Rand) []state.NPCState {
	npcs := make([]state.NPCState, 0, count)
	for i := 0; i < count; i++ {
		isHuman := rng.Float64() > 0.4
		pos := state.Vec3{
			X: (rng.Float64() - 0.5) * (CitySize*TileSize - 2*SpawnInset),
			Z: (rng.Float64() - 0.5) * (CitySize*TileSize - 2*SpawnInset),
		}
		rotation := rng.Float64() * 2 * math.Pi

		npc := state.NPCState{NPC: state.NPC{
			ID:       fmt.Sprintf("npc-%d", i),
			Position: pos,
			Rotation: rotation,
		}}

		if !isHuman {
			npc.Name = dogNames[rng.Intn(len(dogNames))]
			npc.Dog = &state.DogTraits{Breed: dogBreeds[rng.Intn(len(dogBreeds))]}
			npcs = append(npcs, npc)
			continue
		}

		npc.Name = humanNames[rng.Intn(len(humanNames))]
		target := state.TargetNone
		if rng.Float64() > 0.8 {
			target = state.TargetShort
		} else if rng.Float64() > 0.85 {
			target = state.TargetPrisoner
		}

		traits := &state.HumanTraits{Target: target}
		if target == state.TargetPrisoner {
			traits.Appearance = prisonerAppearance(rng)
		} else {
			traits.Appearance = randomAppearance(rng)
		}
		if target == state.TargetNone && rng.Float64() > 0.7 {
			if rng.Float64() > 0.5 {
				traits.Carrying = state.CarryBox
			} else {
				traits.Carrying = state.CarryBag
			}
		}
		npc.Human = traits
		npcs = append(npcs, npc)
	}
	return npcs
}

func randomAppearance(rng *rand.Rand) state.Appearance {
	hairStyles := []state.HairStyle{state.HairPonytail, state.HairBob, state.HairLong, state.HairBuns}
	appearance := state.Appearance{
		HairStyle:    hairStyles[rng.Intn(len(hairStyles))],
		HairColor:    hairColors[rng.Intn(len(hairColors))],
		SkinColor:    skinColors[rng.Intn(len(skinColors))],
		EyeColor:     "#000000",
		EyebrowStyle: state.BrowsArched,
		LipColor:     "#fca5a5",
		TopColor:     topColors[rng.Intn(len(topColors))],
		BottomColor:  "#1f2937",
		SockColor:    "#ffffff",
		ShoeColor:    "#000000",
		HasNecklace:  rng.Float64() > 0.8,
		HasEarrings:  rng.Float64() > 0.8,
	}
	if rng.Float64() > 0.5 {
		appearance.TopType = state.TopTShirt
	} else {
		appearance.TopType = state.TopJacket
	}
	if rng.Float64() > 0.5 {
		appearance.BottomType = state.BottomPantsLong
	} else {
		appearance.BottomType = state.BottomSkirt
	}
	return appearance
}

// prisonerAppearance dresses MS targets in all black so they read on sight.
func prisonerAppearance(rng *rand.Rand) state.Appearance {
	appearance := randomAppearance(rng)
	appearance.TopType = state.TopTShirt
	appearance.TopColor = "#000000"
	appearance.BottomType = state.BottomPantsLong
	appearance.BottomColor = "#000000"
	appearance.ShoeColor = "#333333"
	return appearance
}
