package types

import (
	"fmt"
	"image/color"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// LearningCurve keeps one point per completed episode
type LearningCurve struct {
	Rewards  []float64 `json:"rewards"`
	Steps    []int     `json:"steps"`
	Streaks  []int     `json:"streaks"`
	Outcomes []Outcome `json:"outcomes"`
}

func NewLearningCurve() *LearningCurve {
	return &LearningCurve{
		Rewards:  make([]float64, 0),
		Steps:    make([]int, 0),
		Streaks:  make([]int, 0),
		Outcomes: make([]Outcome, 0),
	}
}

func (l *LearningCurve) Add(e *Episode, streak int) {
	l.Rewards = append(l.Rewards, e.Reward)
	l.Steps = append(l.Steps, e.Steps)
	l.Streaks = append(l.Streaks, streak)
	l.Outcomes = append(l.Outcomes, e.Outcome)
}

func (l *LearningCurve) Len() int {
	return len(l.Rewards)
}

func (l *LearningCurve) Copy() *LearningCurve {
	return &LearningCurve{
		Rewards:  append([]float64(nil), l.Rewards...),
		Steps:    append([]int(nil), l.Steps...),
		Streaks:  append([]int(nil), l.Streaks...),
		Outcomes: append([]Outcome(nil), l.Outcomes...),
	}
}

// CurveStats summarizes a curve
type CurveStats struct {
	Episodes   int
	MeanReward float64
	MeanSteps  float64
	Outcomes   map[Outcome]int
}

func (l *LearningCurve) Stats() CurveStats {
	s := CurveStats{
		Episodes: l.Len(),
		Outcomes: make(map[Outcome]int),
	}
	if l.Len() == 0 {
		return s
	}
	steps := make([]float64, len(l.Steps))
	for i, v := range l.Steps {
		steps[i] = float64(v)
	}
	s.MeanReward = stat.Mean(l.Rewards, nil)
	s.MeanSteps = stat.Mean(steps, nil)
	for _, o := range l.Outcomes {
		s.Outcomes[o] += 1
	}
	return s
}

func (s CurveStats) String() string {
	return fmt.Sprintf("episodes=%d mean_reward=%.2f mean_steps=%.2f goal=%d obstacle=%d step_limit=%d",
		s.Episodes, s.MeanReward, s.MeanSteps, s.Outcomes[GoalReached], s.Outcomes[ObstacleHit], s.Outcomes[StepLimitHit])
}

func (l *LearningCurve) points(vals func(int) float64) plotter.XYs {
	points := make(plotter.XYs, l.Len())
	for i := range points {
		points[i] = plotter.XY{
			X: float64(i + 1),
			Y: vals(i),
		}
	}
	return points
}

// PlotCurve saves a png with the reward and the success streak per episode
func PlotCurve(filePath string, l *LearningCurve) error {
	p := plot.New()
	p.Title.Text = "Treasure hunt learning curve"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Value"

	rewards, err := plotter.NewLine(l.points(func(i int) float64 { return l.Rewards[i] }))
	if err != nil {
		return err
	}
	rewards.Color = plotutil.Color(0)
	streaks, err := plotter.NewLine(l.points(func(i int) float64 { return float64(l.Streaks[i]) }))
	if err != nil {
		return err
	}
	streaks.Color = plotutil.Color(1)
	streaks.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 160}

	p.Add(plotter.NewGrid(), zero, rewards, streaks)
	p.Legend.Add("reward", rewards)
	p.Legend.Add("streak", streaks)
	return p.Save(8*vg.Inch, 5*vg.Inch, filePath)
}

// ChartCurve renders the same curve as an html page
func ChartCurve(filePath string, l *LearningCurve) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Treasure hunt learning curve",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, l.Len())
	rewards := make([]opts.LineData, l.Len())
	streaks := make([]opts.LineData, l.Len())
	for i := 0; i < l.Len(); i++ {
		episodes[i] = fmt.Sprintf("%d", i+1)
		rewards[i] = opts.LineData{Value: l.Rewards[i]}
		streaks[i] = opts.LineData{Value: l.Streaks[i]}
	}
	line = line.SetXAxis(episodes).
		AddSeries("reward", rewards).
		AddSeries("streak", streaks)

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
