package game

import (
	"github.com/pthm-cable/rink/components"
)

// logGoal logs a goal with the running score. scorer is 0 when no
// player on the scoring team gets credit.
func (m *Match) logGoal(team components.Team, scorer uint32) {
	attrs := []any{
		"tick", m.tick,
		"period", m.period,
		"team", team.String(),
		"home", m.score[components.Home],
		"away", m.score[components.Away],
	}
	if scorer != 0 {
		if s := m.tracker.Get(scorer); s != nil {
			attrs = append(attrs, "scorer", s.Name)
		}
	}
	m.logger.Info("goal", attrs...)
}

// logPeriodEnd logs the score and shot totals at the end of a period.
func (m *Match) logPeriodEnd() {
	var shots [2]int
	for _, s := range m.tracker.All() {
		if s.Team == components.Home.String() {
			shots[components.Home] += s.Shots
		} else {
			shots[components.Away] += s.Shots
		}
	}
	m.logger.Info("period over",
		"period", m.period,
		"tick", m.tick,
		"home", m.score[components.Home],
		"away", m.score[components.Away],
		"home_shots", shots[components.Home],
		"away_shots", shots[components.Away],
	)
}

// logFinal logs the result and each player's line.
func (m *Match) logFinal() {
	winner := "tie"
	switch {
	case m.score[components.Home] > m.score[components.Away]:
		winner = components.Home.String()
	case m.score[components.Away] > m.score[components.Home]:
		winner = components.Away.String()
	}
	m.logger.Info("match over",
		"ticks", m.tick,
		"home", m.score[components.Home],
		"away", m.score[components.Away],
		"winner", winner,
	)

	for _, s := range m.tracker.All() {
		m.logger.Debug("player line",
			"name", s.Name,
			"strategy", s.Strategy,
			"goals", s.Goals,
			"shots", s.Shots,
			"pickups", s.Pickups,
			"distance", s.Distance,
			"possession_sec", s.PossessionSec,
			"plans_adopted", s.PlansAdopted,
			"plans_dropped", s.PlansDropped,
		)
	}
}
