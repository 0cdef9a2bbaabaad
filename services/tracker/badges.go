package tracker

// Badge is a named gamification tier unlocked at a points threshold.
type Badge struct {
	Name      string `json:"name"`
	Threshold uint   `json:"threshold"`
}

// badgeTiers is the immutable badge table, ascending by threshold.
var badgeTiers = [...]Badge{
	{Name: "Newbie", Threshold: 0},
	{Name: "Explorer", Threshold: 20},
	{Name: "Achiever", Threshold: 40},
	{Name: "Specialist", Threshold: 60},
	{Name: "Expert", Threshold: 80},
	{Name: "Master", Threshold: 100},
}

// BadgeFor returns the highest-threshold badge whose threshold is at most
// points. The lowest tier is the fallback.
func BadgeFor(points uint) Badge {
	best := badgeTiers[0]
	for _, b := range badgeTiers {
		if points >= b.Threshold {
			best = b
		}
	}
	return best
}
