package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
)

// Lineup slots for the home team on a 200 x 85 rink. Away slots mirror
// them across centre ice; both scale with the configured rink.
const (
	standardWidth  = 200.0
	standardHeight = 85.0
)

var homeSlots = map[string]geom.Point{
	components.Center:       geom.Pt(95, 42.5),
	components.LeftWing:     geom.Pt(60, 12.5),
	components.RightWing:    geom.Pt(60, 72.5),
	components.LeftDefense:  geom.Pt(35, 17.5),
	components.RightDefense: geom.Pt(35, 67.5),
}

// slot returns the faceoff position of a role. Goalies stand in their
// crease just in front of the goal line.
func (m *Match) slot(role components.Role) geom.Point {
	if role.IsGoalie() {
		return m.rink.CreaseSpot(role.Team)
	}
	p := homeSlots[role.Code]
	p = geom.Pt(p.X*m.rink.Width/standardWidth, p.Y*m.rink.Height/standardHeight)
	if role.Team == components.Away {
		p = mirror(p, m.rink.Width)
	}
	return p
}

// spawnLineups creates both teams, home first, each in lineup order, and
// an agent for every player.
func (m *Match) spawnLineups() error {
	for _, team := range []components.Team{components.Home, components.Away} {
		for _, code := range components.Lineup {
			role := components.Role{Team: team, Code: code}
			body := m.spawnPlayer(role)

			spec, ok := m.cfg.Agents[code]
			if !ok {
				return fmt.Errorf("%w: %s", ErrNoAgentSpec, code)
			}
			if _, err := m.CreateAgent(body, ai.Strategy(spec.Strategy), spec.Task); err != nil {
				return fmt.Errorf("agent for %s %s: %w", team, code, err)
			}
		}
	}
	return nil
}

// spawnPlayer creates a player body at its lineup slot.
func (m *Match) spawnPlayer(role components.Role) ecs.Entity {
	name := role.Team.String() + "_" + role.Code
	at := m.slot(role)
	body := m.world.CreateBody(components.Dynamic, at, name, fixtureFrom(m.cfg.Player))
	m.scene.SetRole(body, role)
	m.players = append(m.players, body)
	m.slots[body] = at
	return body
}

// CreateAgent attaches a planner-driven controller to a player body. The
// agent is updated after every agent created before it.
func (m *Match) CreateAgent(body ecs.Entity, strategy ai.Strategy, task string) (*ai.Agent, error) {
	role, ok := m.scene.Role(body)
	if !ok {
		return nil, ErrNoRole
	}
	if _, exists := m.byBody[body]; exists {
		return nil, ErrHasAgent
	}

	planner, err := m.book.PlannerFor(strategy, task)
	if err != nil {
		return nil, err
	}
	switch p := planner.(type) {
	case *ai.GOAPPlanner:
		p.SetMaxExpansions(m.cfg.AI.MaxExpansions)
	case *ai.HTNPlanner:
		p.SetMaxDepth(m.cfg.AI.MaxDepth)
	}

	name := m.world.Body(body).Name
	a := ai.NewAgent(body, name, role, planner,
		ai.WithObserver(observer{m}),
		ai.WithLogger(m.logger),
		ai.WithIdleDamping(m.cfg.AI.IdleDamping),
	)
	if at, ok := m.slots[body]; ok {
		a.Blackboard().SetPoint(ai.KeyHomePosition, at)
	}

	m.agents = append(m.agents, a)
	m.byBody[body] = a
	m.tracker.Register(body.ID(), name, role, string(planner.Strategy()))
	return a, nil
}
