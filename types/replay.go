package types

import "github.com/zeu5/treasure-qlearn/grid"

// Replayer walks the path of the latest episode one cell per tick.
// Loading a new path restarts from its first cell; once the path is
// exhausted the agent is shown at the start cell.
type Replayer struct {
	start   grid.Position
	path    []grid.Position
	index   int
	current grid.Position
}

func NewReplayer(start grid.Position) *Replayer {
	return &Replayer{
		start:   start,
		path:    nil,
		index:   0,
		current: start,
	}
}

func (r *Replayer) Load(path []grid.Position) {
	r.path = path
	r.index = 0
	r.current = r.start
}

func (r *Replayer) Next() grid.Position {
	if r.index < len(r.path) {
		r.current = r.path[r.index]
		r.index += 1
	} else {
		r.current = r.start
	}
	return r.current
}

func (r *Replayer) Position() grid.Position {
	return r.current
}

// Done is true when there is nothing left to replay
func (r *Replayer) Done() bool {
	return r.index >= len(r.path)
}
