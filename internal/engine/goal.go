package engine

import (
	"math"
	"strings"
)

type Zone string

const (
	ZoneLeft     Zone = "left"
	ZoneOverGoal Zone = "over_goal"
	ZoneOverRMR  Zone = "over_rmr"
)

func (z Zone) Label() string {
	switch z {
	case ZoneOverGoal:
		return "Over goal"
	case ZoneOverRMR:
		return "Over RMR"
	default:
		return "Left"
	}
}

type Status struct {
	Goal         int  `json:"goal"`
	CaloriesLeft int  `json:"calories_left"`
	Zone         Zone `json:"zone"`
	Magnitude    int  `json:"magnitude"`
}

// Classify places net calories into one of three zones, checked in order:
// left (net <= goal), over goal (net <= rmr), over RMR.
func Classify(net, rmr, deficit int) Status {
	goal := rmr - deficit
	s := Status{Goal: goal, CaloriesLeft: goal - net}
	switch {
	case net <= goal:
		s.Zone = ZoneLeft
		s.Magnitude = s.CaloriesLeft
	case net <= rmr:
		s.Zone = ZoneOverGoal
		s.Magnitude = absInt(s.CaloriesLeft)
	default:
		s.Zone = ZoneOverRMR
		s.Magnitude = absInt(s.CaloriesLeft)
	}
	return s
}

// Bar is the segmented progress geometry. All percentages are relative to
// Scale, which grows past RMR when net calories exceed it.
type Bar struct {
	Scale         int     `json:"scale"`
	GreenPct      float64 `json:"green_pct"`
	YellowPct     float64 `json:"yellow_pct"`
	RedPct        float64 `json:"red_pct"`
	GoalMarkerPct float64 `json:"goal_marker_pct"`
	RMRMarkerPct  float64 `json:"rmr_marker_pct"`
}

func Progress(net, goal, rmr int) Bar {
	scale := rmr
	if net > scale {
		scale = net
	}
	if scale < 1 {
		scale = 1
	}
	pct := func(v int) float64 {
		return float64(v) * 100 / float64(scale)
	}
	green := max(0, min(net, goal))
	yellow := max(0, min(net, rmr)-goal)
	red := max(0, net-rmr)
	return Bar{
		Scale:         scale,
		GreenPct:      pct(green),
		YellowPct:     pct(yellow),
		RedPct:        pct(red),
		GoalMarkerPct: pct(goal),
		RMRMarkerPct:  pct(rmr),
	}
}

// Render draws the bar as width cells: '=' green, '+' yellow, '!' red,
// '.' unfilled and '|' at the goal marker.
func (b Bar) Render(width int) string {
	if width < 1 {
		width = 1
	}
	cells := func(pct float64) int {
		n := int(math.Round(pct / 100 * float64(width)))
		return max(0, min(width, n))
	}
	greenEnd := cells(b.GreenPct)
	yellowEnd := cells(b.GreenPct + b.YellowPct)
	redEnd := cells(b.GreenPct + b.YellowPct + b.RedPct)

	out := make([]byte, width)
	for i := range out {
		switch {
		case i < greenEnd:
			out[i] = '='
		case i < yellowEnd:
			out[i] = '+'
		case i < redEnd:
			out[i] = '!'
		default:
			out[i] = '.'
		}
	}
	if b.GoalMarkerPct >= 0 && b.GoalMarkerPct <= 100 {
		out[min(width-1, cells(b.GoalMarkerPct))] = '|'
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.Write(out)
	sb.WriteByte(']')
	return sb.String()
}
