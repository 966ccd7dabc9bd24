package telemetry

import (
	"fmt"
	"log/slog"
)

// HighlightType identifies the type of highlight.
type HighlightType string

const (
	HighlightShotFlurry     HighlightType = "shot_flurry"
	HighlightLeadChange     HighlightType = "lead_change"
	HighlightScoringDrought HighlightType = "scoring_drought"
)

// droughtWindows is how many goalless windows make a drought.
const droughtWindows = 5

// Highlight represents an automatically detected moment in a match.
type Highlight struct {
	Type        HighlightType `csv:"type" json:"type"`
	Tick        int32         `csv:"tick" json:"tick"`
	Description string        `csv:"description" json:"description"`
}

// LogHighlight logs the highlight using slog.
func (h Highlight) LogHighlight() {
	slog.Info("highlight",
		"type", string(h.Type),
		"tick", h.Tick,
		"description", h.Description,
	)
}

// HighlightDetector watches window stats for notable swings.
type HighlightDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	leader          int // sign of home - away when someone last led
	goallessWindows int
}

// NewHighlightDetector creates a detector with the given history size.
func NewHighlightDetector(historySize int) *HighlightDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &HighlightDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered highlights.
func (hd *HighlightDetector) Check(stats WindowStats) []Highlight {
	var highlights []Highlight

	if h := hd.checkShotFlurry(stats); h != nil {
		highlights = append(highlights, *h)
	}
	if h := hd.checkLeadChange(stats); h != nil {
		highlights = append(highlights, *h)
	}
	if h := hd.checkDrought(stats); h != nil {
		highlights = append(highlights, *h)
	}

	hd.addToHistory(stats)
	return highlights
}

func (hd *HighlightDetector) addToHistory(stats WindowStats) {
	hd.history[hd.historyIdx] = stats
	hd.historyIdx = (hd.historyIdx + 1) % hd.historySize
	if hd.historyIdx == 0 {
		hd.historyFull = true
	}
}

func (hd *HighlightDetector) getHistory() []WindowStats {
	if hd.historyFull {
		return hd.history
	}
	return hd.history[:hd.historyIdx]
}

func (hd *HighlightDetector) checkShotFlurry(stats WindowStats) *Highlight {
	history := hd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Shots()
	}
	avg := float64(total) / float64(len(history))

	shots := stats.Shots()
	if shots >= 5 && float64(shots) > avg*2.0 {
		return &Highlight{
			Type:        HighlightShotFlurry,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d shots, %.1fx the recent average (%.1f)", shots, float64(shots)/max(avg, 1), avg),
		}
	}
	return nil
}

func (hd *HighlightDetector) checkLeadChange(stats WindowStats) *Highlight {
	leader := sign(stats.HomeScore - stats.AwayScore)
	if leader == 0 {
		return nil
	}
	prev := hd.leader
	hd.leader = leader

	// The first lead is not a change; a tie in between does not reset it.
	if prev == 0 || prev == leader {
		return nil
	}
	team := "home"
	if leader < 0 {
		team = "away"
	}
	return &Highlight{
		Type:        HighlightLeadChange,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%s takes the lead %d-%d", team, stats.HomeScore, stats.AwayScore),
	}
}

func (hd *HighlightDetector) checkDrought(stats WindowStats) *Highlight {
	if stats.Goals() > 0 {
		hd.goallessWindows = 0
		return nil
	}
	hd.goallessWindows++

	if hd.goallessWindows == droughtWindows { // trigger exactly once per drought
		return &Highlight{
			Type:        HighlightScoringDrought,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No goals for %d windows", droughtWindows),
		}
	}
	return nil
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
