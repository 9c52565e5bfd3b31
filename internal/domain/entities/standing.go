package entities

// Standing defines the affinity between two parties: a character toward a
// faction, or one faction toward another.
type Standing string

const (
	StandingAlly    Standing = "ally"
	StandingFriend  Standing = "friend"
	StandingNeutral Standing = "neutral"
	StandingHostile Standing = "hostile"
	StandingEnemy   Standing = "enemy"
)

// ValidStandings lists all recognized standings in display order.
var ValidStandings = []Standing{
	StandingAlly,
	StandingFriend,
	StandingNeutral,
	StandingHostile,
	StandingEnemy,
}

// IsValid reports whether the standing is one of the recognized values.
func (s Standing) IsValid() bool {
	for _, v := range ValidStandings {
		if s == v {
			return true
		}
	}
	return false
}
