package sim

// DropState is the lifecycle state of a falling object.
type DropState string

const (
	DropSpawned DropState = "spawned"
	DropFalling DropState = "falling"
	DropSettled DropState = "settled"
)

// FallingObject is one shape descending through the chamber. It exists only for the
// duration of a single Drop; once settled its cells belong to the chamber.
type FallingObject struct {
	Shape Shape
	X     int64 // anchor column (leftmost cell)
	Y     int64 // anchor row (lowest cell)
	State DropState
}

// DropResult describes one completed descent.
type DropResult struct {
	X, Y        int64 // anchor where the object came to rest
	JetsApplied int64 // deflections that moved the object
	JetsBlocked int64 // deflections reverted because of a collision
	FallSteps   int64 // successful downward moves
}

// DropController moves a single object at a time from spawn to rest.
type DropController struct {
	chamber  *Chamber
	jets     *DeflectionSequence
	spawnX   int64
	spawnGap int64
}

// NewDropController binds a controller to one run's chamber and jet cursor.
// spawnX is the gap to the left wall; spawnGap is the number of empty rows between the
// highest occupied row and the spawned object's lowest cell.
func NewDropController(chamber *Chamber, jets *DeflectionSequence, spawnX, spawnGap int) *DropController {
	return &DropController{
		chamber:  chamber,
		jets:     jets,
		spawnX:   int64(spawnX),
		spawnGap: int64(spawnGap),
	}
}

// Spawn places a new object at the fixed offset from the left wall and above the tower.
func (dc *DropController) Spawn(s Shape) *FallingObject {
	return &FallingObject{
		Shape: s,
		X:     dc.spawnX,
		Y:     dc.chamber.Highest() + dc.spawnGap + 1,
		State: DropSpawned,
	}
}

// Step performs one deflect-then-fall iteration. It returns false once the object has
// settled; the chamber then holds its cells.
func (dc *DropController) Step(obj *FallingObject, res *DropResult) bool {
	// Deflection always precedes the gravity check.
	dx := int64(dc.jets.Next())
	if dc.chamber.Collides(obj.Shape, obj.X+dx, obj.Y) {
		res.JetsBlocked++
	} else {
		obj.X += dx
		res.JetsApplied++
	}

	if dc.chamber.Collides(obj.Shape, obj.X, obj.Y-1) {
		dc.chamber.Settle(obj.Shape, obj.X, obj.Y)
		obj.State = DropSettled
		return false
	}
	obj.Y--
	obj.State = DropFalling
	res.FallSteps++
	return true
}

// Drop spawns s and runs it until it settles.
func (dc *DropController) Drop(s Shape) DropResult {
	obj := dc.Spawn(s)
	var res DropResult
	for dc.Step(obj, &res) {
	}
	res.X, res.Y = obj.X, obj.Y
	return res
}
