package grid

// Cell classifies a grid cell for renderers
type Cell string

const (
	Treasure Cell = "treasure"
	Obstacle Cell = "obstacle"
	Empty    Cell = "empty"
)

func (w *World) Classify(p Position) Cell {
	if w.IsGoal(p) {
		return Treasure
	}
	if w.IsObstacle(p) {
		return Obstacle
	}
	return Empty
}

// Cells returns the classification of every cell, indexed [row][col]
func (w *World) Cells() [][]Cell {
	cells := make([][]Cell, w.Size)
	for i := 0; i < w.Size; i++ {
		cells[i] = make([]Cell, w.Size)
		for j := 0; j < w.Size; j++ {
			cells[i][j] = w.Classify(Position{Row: i, Col: j})
		}
	}
	return cells
}
