package types

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/zeu5/treasure-qlearn/grid"
)

// VisitGraph counts, across episodes, how often each cell was left and
// which cells each action led to from it
type VisitGraph struct {
	Nodes map[string]*Node
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Update records the transition and returns true if from was new
func (v *VisitGraph) Update(from grid.Position, action grid.Action, to grid.Position) bool {
	fromKey := from.Hash()
	toKey := to.Hash()
	new := false
	if _, ok := v.Nodes[fromKey]; !ok {
		v.Nodes[fromKey] = NewNode(from)
		new = true
	}
	if _, ok := v.Nodes[toKey]; !ok {
		v.Nodes[toKey] = NewNode(to)
	}
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action.Hash(), toKey)
	v.Nodes[toKey].AddPrev(action.Hash(), fromKey)
	return new
}

// AddEpisode records every transition of the episode
func (v *VisitGraph) AddEpisode(e *Episode) {
	for i, a := range e.Actions {
		v.Update(e.Path[i], a, e.Path[i+1])
	}
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

func (v *VisitGraph) Record(filePath string) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	writer.Write(bs)
	return writer.Flush()
}

type Node struct {
	Key    string
	State  grid.Position
	Visits int
	// Next, Prev: action -> set of cells
	Next map[string]map[string]bool
	Prev map[string]map[string]bool
}

func NewNode(s grid.Position) *Node {
	return &Node{
		Key:    s.Hash(),
		State:  s,
		Visits: 0,
		Next:   make(map[string]map[string]bool),
		Prev:   make(map[string]map[string]bool),
	}
}

func (n *Node) AddPrev(a, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}
