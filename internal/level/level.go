// Package level maps cumulative points to a level and progress tuple.
// Everything here is pure; levels are derived on read and never stored.
package level

// Thresholds is the ascending table of cumulative points per level.
// Index 0 is level 1. Levels past the table grow in fixed 1000-point steps.
var Thresholds = []int{0, 100, 300, 600, 1000, 1500, 2200, 3000, 4000, 5200}

const openEndedStep = 1000

// UserLevel describes where totalPoints lands in the threshold table.
// CurrentPoints counts points earned past the current level's threshold.
type UserLevel struct {
	Level             int
	TotalPoints       int
	CurrentPoints     int
	PointsToNextLevel int
}

// Calculate derives the level for a cumulative point total.
// Negative input is clamped to zero.
func Calculate(totalPoints int) UserLevel {
	if totalPoints < 0 {
		totalPoints = 0
	}

	lvl := 1
	for i := len(Thresholds) - 1; i >= 0; i-- {
		if totalPoints >= Thresholds[i] {
			lvl = i + 1
			break
		}
	}

	current := Thresholds[lvl-1]
	if lvl == len(Thresholds) {
		// Past the table the ladder keeps climbing in fixed steps.
		for totalPoints >= current+openEndedStep {
			current += openEndedStep
			lvl++
		}
	}

	next := current + openEndedStep
	if lvl < len(Thresholds) {
		next = Thresholds[lvl]
	}

	return UserLevel{
		Level:             lvl,
		TotalPoints:       totalPoints,
		CurrentPoints:     totalPoints - current,
		PointsToNextLevel: next - totalPoints,
	}
}

var titles = []string{
	"Beginner", "Novice", "Apprentice", "Practitioner", "Disciplined",
	"Focused", "Conqueror", "Master", "Legend", "Awakened",
}

// Title names a level. Levels past the table keep the last title.
func Title(lvl int) string {
	if lvl < 1 {
		return titles[0]
	}
	if lvl > len(titles) {
		return titles[len(titles)-1]
	}
	return titles[lvl-1]
}

// Progress reports completion of the current level as 0-100.
func Progress(u UserLevel) int {
	total := u.CurrentPoints + u.PointsToNextLevel
	if total == 0 {
		return 0
	}
	return int(float64(u.CurrentPoints)/float64(total)*100 + 0.5)
}
