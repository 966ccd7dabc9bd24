package components

// Team identifies which side a player is on.
type Team uint8

const (
	Home Team = iota
	Away
)

func (t Team) String() string {
	if t == Home {
		return "home"
	}
	return "away"
}

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Home {
		return Away
	}
	return Home
}

// Position codes for a lineup.
const (
	Center       = "C"
	LeftWing     = "LW"
	RightWing    = "RW"
	LeftDefense  = "LD"
	RightDefense = "RD"
	Goalie       = "G"
)

// Lineup lists the position codes in creation order.
var Lineup = []string{Center, LeftWing, RightWing, LeftDefense, RightDefense, Goalie}

// Role tags a player body with its team and position code.
type Role struct {
	Team Team
	Code string
}

// IsGoalie reports whether the role is a goaltender.
func (r Role) IsGoalie() bool { return r.Code == Goalie }

// IsForward reports whether the role is C, LW or RW.
func (r Role) IsForward() bool {
	return r.Code == Center || r.Code == LeftWing || r.Code == RightWing
}
