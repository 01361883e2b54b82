package types

import (
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/policies"
)

type AgentConfig struct {
	// Horizon is the step cap of an episode
	Horizon int
	Alpha   float64
	Start   grid.Position
	Policy  policies.Policy
	World   *grid.World
	QTable  *policies.QTable
}

// Agent runs episodes against the world, updating the table online
type Agent struct {
	config *AgentConfig
	policy policies.Policy
	world  *grid.World
	qTable *policies.QTable
}

func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config: config,
		policy: config.Policy,
		world:  config.World,
		qTable: config.QTable,
	}
}

// RunEpisode simulates one episode from the start cell. The goal check
// happens before each step, the obstacle check right after it.
func (a *Agent) RunEpisode() *Episode {
	state := a.config.Start
	episode := NewEpisode(state)

	for {
		if a.world.IsGoal(state) {
			episode.Outcome = GoalReached
			break
		}
		if episode.Steps >= a.config.Horizon {
			episode.Outcome = StepLimitHit
			break
		}
		action := a.policy.NextAction(state, a.qTable)
		nextState := a.world.Step(state, action)
		reward := a.world.Reward(nextState)

		episode.append(action, nextState, reward)
		a.qTable.Update(state, action, reward, nextState, a.config.Alpha)

		state = nextState
		if a.world.IsObstacle(state) && !a.world.IsGoal(state) {
			episode.Outcome = ObstacleHit
			break
		}
	}
	return episode
}
