package server

import "math"

// setMoveIntent stores the latest keyboard vector. Diagonals are normalized
// so two keys are never faster than one.
func (w *World) setMoveIntent(dx, dz float64) {
	length := math.Hypot(dx, dz)
	if length > 1 {
		dx /= length
		dz /= length
	}
	w.player.IntentX = dx
	w.player.IntentZ = dz
}

// advancePlayer integrates the movement intent for one frame. Each axis is
// resolved independently against the obstacle set, so sliding along a wall
// works instead of sticking to it.
func (w *World) advancePlayer(dt float64) {
	scene := w.sceneConfigFor()
	if !scene.Movable {
		return
	}
	if w.player.IntentX == 0 && w.player.IntentZ == 0 {
		return
	}

	pos := w.player.Position
	nextX := pos.X + w.player.IntentX*playerMoveSpeed*dt
	nextZ := pos.Z + w.player.IntentZ*playerMoveSpeed*dt

	if !blocked(scene.Obstacles, nextX, pos.Z) {
		pos.X = nextX
	}
	if !blocked(scene.Obstacles, pos.X, nextZ) {
		pos.Z = nextZ
	}

	pos.X = clamp(pos.X, -scene.BoundsHalf, scene.BoundsHalf)
	pos.Z = clamp(pos.Z, -scene.BoundsHalf, scene.BoundsHalf)

	w.player.Position = pos
}

func blocked(obstacles []obstacleRect, x, z float64) bool {
	for _, rect := range obstacles {
		if rect.contains(x, z, playerHalf) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
