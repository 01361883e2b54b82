package types

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/policies"
	"golang.org/x/exp/rand"
)

// Status of a session
type Status string

const (
	StatusIdle      Status = "idle"
	StatusTraining  Status = "training"
	StatusConverged Status = "converged"
	StatusExhausted Status = "exhausted"
)

// Terminal is true once no more episodes will run
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusExhausted
}

// Session owns the table, the counters, the latest episode and the
// replay of its path. Every mutation goes through its methods and is
// serialized by a single lock, so the episode driver, the replay driver
// and readers never interleave.
type Session struct {
	ID string

	config   *Config
	world    *grid.World
	qTable   *policies.QTable
	policy   policies.Policy
	source   rand.Source
	agent    *Agent
	replayer *Replayer
	visits   *VisitGraph
	curve    *LearningCurve
	sinks    []EpisodeSink
	logger   log.Logger

	lock      *sync.Mutex
	started   bool
	iteration int
	streak    int
	converged bool
	last      *Episode

	episodeDriver *Driver
	replayDriver  *Driver
}

type Option func(*Session)

func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSource sets the random source used for exploration
func WithSource(src rand.Source) Option {
	return func(s *Session) {
		s.source = src
	}
}

// WithPolicy replaces the epsilon-greedy policy built from the config
func WithPolicy(p policies.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

func WithSinks(sinks ...EpisodeSink) Option {
	return func(s *Session) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// NewSession validates the config and sets up a session that has not
// started yet
func NewSession(config *Config, opts ...Option) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	world := config.World()
	s := &Session{
		ID:            uuid.NewString(),
		config:        config,
		world:         world,
		qTable:        policies.NewQTable(config.GridSize),
		replayer:      NewReplayer(config.Start),
		visits:        NewVisitGraph(),
		curve:         NewLearningCurve(),
		sinks:         make([]EpisodeSink, 0),
		logger:        log.NewNopLogger(),
		lock:          new(sync.Mutex),
		episodeDriver: NewDriver(),
		replayDriver:  NewDriver(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.source == nil {
		seed := config.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		s.source = rand.NewSource(seed)
	}
	if s.policy == nil {
		s.policy = policies.NewEpsilonGreedy(config.ExplorationRate, s.source)
	}
	s.logger = log.With(s.logger, "session", s.ID)
	s.agent = NewAgent(&AgentConfig{
		Horizon: config.MaxSteps,
		Alpha:   config.LearningRate,
		Start:   config.Start,
		Policy:  s.policy,
		World:   world,
		QTable:  s.qTable,
	})
	return s, nil
}

// Start creates a session and marks it started
func Start(config *Config, opts ...Option) (*Session, error) {
	s, err := NewSession(config, opts...)
	if err != nil {
		return nil, err
	}
	s.Start()
	return s, nil
}

func (s *Session) Start() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.started {
		s.started = true
		level.Info(s.logger).Log("msg", "session started", "size", s.config.GridSize, "goal", s.config.Goal, "max_episodes", s.config.MaxEpisodes)
	}
}

func (s *Session) status() Status {
	switch {
	case s.converged:
		return StatusConverged
	case s.iteration >= s.config.MaxEpisodes:
		return StatusExhausted
	case !s.started:
		return StatusIdle
	}
	return StatusTraining
}

func (s *Session) progress() Progress {
	return Progress{
		SessionID: s.ID,
		Iteration: s.iteration,
		Streak:    s.streak,
		Status:    s.status(),
	}
}

// TickEpisode runs one episode if the session is started and not terminal.
// It returns false and does nothing otherwise.
func (s *Session) TickEpisode() (*Episode, bool) {
	s.lock.Lock()
	if s.status() != StatusTraining {
		s.lock.Unlock()
		return nil, false
	}

	episode := s.agent.RunEpisode()
	s.iteration += 1
	episode.Number = s.iteration
	if episode.Succeeded() {
		s.streak += 1
	} else {
		s.streak = 0
	}
	if s.streak >= s.config.SuccessThreshold {
		s.converged = true
	}
	s.last = episode
	s.replayer.Load(episode.Path)
	s.visits.AddEpisode(episode)
	s.curve.Add(episode, s.streak)

	progress := s.progress()
	out := episode.Copy()
	s.lock.Unlock()

	level.Debug(s.logger).Log("msg", "episode", "episode", out.Number, "outcome", out.Outcome, "steps", out.Steps, "reward", out.Reward, "streak", progress.Streak)
	switch progress.Status {
	case StatusConverged:
		level.Info(s.logger).Log("msg", "converged", "episodes", progress.Iteration, "streak", progress.Streak)
	case StatusExhausted:
		level.Info(s.logger).Log("msg", "episode cap reached without converging", "episodes", progress.Iteration)
	}
	for _, sink := range s.sinks {
		if err := sink.OnEpisode(out, progress); err != nil {
			level.Warn(s.logger).Log("msg", "episode sink failed", "err", err)
		}
	}
	return out, true
}

// TickReplay advances the replay by one cell. No-op before Start.
func (s *Session) TickReplay() (grid.Position, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.started {
		return s.replayer.Position(), false
	}
	return s.replayer.Next(), true
}

// Train runs episodes back to back, without drivers, until the session
// is terminal or ctx is done
func (s *Session) Train(ctx context.Context, onEpisode func(*Episode, Progress)) Status {
	s.Start()
	for {
		select {
		case <-ctx.Done():
			return s.Status()
		default:
		}
		e, ok := s.TickEpisode()
		if !ok {
			return s.Status()
		}
		if onEpisode != nil {
			onEpisode(e, s.Progress())
		}
	}
}

// Run starts the session and both drivers at the configured intervals.
// The drivers stop when ctx is done or StopDrivers is called.
func (s *Session) Run(ctx context.Context) {
	s.Start()
	s.episodeDriver.Start(ctx, s.config.EpisodeInterval, func() { s.TickEpisode() })
	s.replayDriver.Start(ctx, s.config.ReplayInterval, func() { s.TickReplay() })
}

func (s *Session) StopDrivers() {
	s.episodeDriver.Stop()
	s.replayDriver.Stop()
}

func (s *Session) DriversRunning() bool {
	return s.episodeDriver.Running() || s.replayDriver.Running()
}

func (s *Session) Config() Config {
	c := *s.config
	c.Obstacles = append([]grid.Position(nil), s.config.Obstacles...)
	return c
}

func (s *Session) World() *grid.World {
	return s.world
}

func (s *Session) Started() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.started
}

func (s *Session) Status() Status {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.status()
}

func (s *Session) Progress() Progress {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.progress()
}

func (s *Session) Iteration() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.iteration
}

func (s *Session) Streak() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.streak
}

func (s *Session) Converged() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.converged
}

// LastEpisode is a copy of the most recent episode, nil before the first
func (s *Session) LastEpisode() *Episode {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.last == nil {
		return nil
	}
	return s.last.Copy()
}

func (s *Session) QTable() map[string]map[string]float64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.qTable.Snapshot()
}

// Values is a copy of the action values of one cell
func (s *Session) Values(state grid.Position) []float64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.qTable.Values(state)
}

// NumStates is the number of states in the table
func (s *Session) NumStates() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.qTable.NumStates()
}

func (s *Session) RecordQTable(filePath string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.qTable.Record(filePath)
}

func (s *Session) ReplayPosition() grid.Position {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.replayer.Position()
}

func (s *Session) Visits() map[string]int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.visits.GetVisits()
}

func (s *Session) RecordVisits(filePath string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.visits.Record(filePath)
}

func (s *Session) Curve() *LearningCurve {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.curve.Copy()
}

// BoardCell is what a renderer needs for one cell
type BoardCell struct {
	Cell  grid.Cell `json:"type"`
	Agent bool      `json:"agent"`
}

// Board classifies every cell and marks the current replay position
func (s *Session) Board() [][]BoardCell {
	s.lock.Lock()
	agent := s.replayer.Position()
	s.lock.Unlock()

	cells := s.world.Cells()
	board := make([][]BoardCell, len(cells))
	for i, row := range cells {
		board[i] = make([]BoardCell, len(row))
		for j, c := range row {
			board[i][j] = BoardCell{Cell: c, Agent: agent == grid.Pos(i, j)}
		}
	}
	return board
}

// Summary is the read-only view served to outer layers
type Summary struct {
	Progress
	Started     bool     `json:"started"`
	Converged   bool     `json:"converged"`
	TotalReward float64  `json:"total_reward"`
	Outcome     Outcome  `json:"outcome,omitempty"`
	Path        [][2]int `json:"path"`
	Agent       [2]int   `json:"agent"`
}

func (s *Session) Summary() Summary {
	s.lock.Lock()
	defer s.lock.Unlock()
	pos := s.replayer.Position()
	sum := Summary{
		Progress:  s.progress(),
		Started:   s.started,
		Converged: s.converged,
		Path:      [][2]int{},
		Agent:     [2]int{pos.Row, pos.Col},
	}
	if s.last != nil {
		sum.TotalReward = s.last.Reward
		sum.Outcome = s.last.Outcome
		sum.Path = s.last.Pairs()
	}
	return sum
}
