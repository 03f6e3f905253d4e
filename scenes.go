package server

import (
	"crownridge/server/internal/state"
	"crownridge/server/internal/worldgen"
)

// obstacleRect is an axis-aligned collision footprint on the ground plane.
type obstacleRect struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

func (r obstacleRect) contains(x, z, half float64) bool {
	return x+half > r.MinX && x-half < r.MaxX && z+half > r.MinZ && z-half < r.MaxZ
}

// buildingHalf is the collision half-extent of a building footprint. Tiles
// are 10 units; buildings fill the middle 6, leaving a walkable margin.
const buildingHalf = 3.0

// buildCityObstacles derives the city scene's collision set from the static
// layout. Roads are flat and walkable; everything else blocks.
func buildCityObstacles(layout *worldgen.Layout) []obstacleRect {
	rects := make([]obstacleRect, 0, len(layout.Buildings))
	for i := range layout.Buildings {
		b := &layout.Buildings[i]
		if b.Kind == state.BuildingRoad {
			continue
		}
		rects = append(rects, obstacleRect{
			MinX: b.Position.X - buildingHalf,
			MaxX: b.Position.X + buildingHalf,
			MinZ: b.Position.Z - buildingHalf,
			MaxZ: b.Position.Z + buildingHalf,
		})
	}
	return rects
}

// sceneConfig is the movement envelope of the active scene.
type sceneConfig struct {
	BoundsHalf float64
	Obstacles  []obstacleRect
	Movable    bool
}

// interiorHalf bounds every indoor scene.
const interiorHalf = 8.0

// sceneConfigFor resolves the movement rules for the current phase. Menu
// phases and the two terminal scenes pin the avatar in place.
func (w *World) sceneConfigFor() sceneConfig {
	switch w.phase {
	case PhasePlaying:
		return sceneConfig{
			BoundsHalf: worldgen.WorldHalf - playerHalf,
			Obstacles:  w.cityObstacles,
			Movable:    true,
		}
	case PhaseHomeView, PhaseFriendHouse, PhaseSTStation, PhaseMSStation, PhaseRoyalChamber:
		return sceneConfig{BoundsHalf: interiorHalf, Movable: true}
	default:
		return sceneConfig{}
	}
}
