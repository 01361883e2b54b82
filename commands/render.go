package commands

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/policies"
	"github.com/zeu5/treasure-qlearn/types"
)

// renderBoard draws one line per row: A agent, $ treasure, X obstacle
func renderBoard(au aurora.Aurora, board [][]types.BoardCell) string {
	var b strings.Builder
	for _, row := range board {
		for _, c := range row {
			switch {
			case c.Agent:
				b.WriteString(au.Bold(au.Cyan(" A ")).String())
			case c.Cell == grid.Treasure:
				b.WriteString(au.Yellow(" $ ").String())
			case c.Cell == grid.Obstacle:
				b.WriteString(au.Red(" X ").String())
			default:
				b.WriteString(" . ")
			}
			b.WriteString(au.White("|").String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

var arrows = map[grid.Action]string{
	grid.Up:    "^",
	grid.Down:  "v",
	grid.Left:  "<",
	grid.Right: ">",
}

// renderPolicy draws the greedy action and its value for every cell
func renderPolicy(au aurora.Aurora, world *grid.World, values func(grid.Position) []float64) string {
	var b strings.Builder
	for i := 0; i < world.Size; i++ {
		for j := 0; j < world.Size; j++ {
			p := grid.Pos(i, j)
			switch world.Classify(p) {
			case grid.Treasure:
				b.WriteString(au.Yellow(fmt.Sprintf("%9s ", "$")).String())
			case grid.Obstacle:
				b.WriteString(au.Red(fmt.Sprintf("%9s ", "X")).String())
			default:
				vals := values(p)
				best := policies.GreedyOf(vals)
				cell := fmt.Sprintf("%s %7.2f ", arrows[best], vals[best])
				if vals[best] >= 0 {
					b.WriteString(au.Green(cell).String())
				} else {
					b.WriteString(au.Blue(cell).String())
				}
			}
			b.WriteString(au.White("|").String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderPath lists the cells of an episode as [row, col] pairs
func renderPath(e *types.Episode) string {
	parts := make([]string, len(e.Path))
	for i, p := range e.Pairs() {
		parts[i] = fmt.Sprintf("[%d, %d]", p[0], p[1])
	}
	return strings.Join(parts, " ")
}
