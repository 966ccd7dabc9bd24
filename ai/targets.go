package ai

import (
	"fmt"

	"github.com/pthm-cable/rink/geom"
)

// Target kinds accepted by set_target.
const (
	TargetPoint       = "point"
	TargetPuck        = "puck"
	TargetOpponentNet = "opponent_net"
	TargetOwnCrease   = "own_crease"
)

// targetResolver turns set_target params into a function evaluated when the
// step runs, so moving targets are read fresh.
func targetResolver(p OperatorParams) (func(Context) geom.Point, error) {
	switch p.Target {
	case TargetPoint:
		pt := geom.Pt(p.X, p.Y)
		return func(Context) geom.Point { return pt }, nil
	case TargetPuck:
		return func(ctx Context) geom.Point { return ctx.Scene.PuckPosition() }, nil
	case TargetOpponentNet:
		return func(ctx Context) geom.Point { return ctx.Scene.AttackingNet(ctx.Agent.Body) }, nil
	case TargetOwnCrease:
		return func(ctx Context) geom.Point {
			role, _ := ctx.Scene.Role(ctx.Agent.Body)
			return ctx.Scene.Rink().CreaseSpot(role.Team)
		}, nil
	}
	return nil, fmt.Errorf("%w: target %q", ErrBadParams, p.Target)
}
