package state

// Mood is flavor only; it changes with transactions and clock events and is
// rendered on the HUD, but no rule reads it back.
type Mood string

const (
	MoodLackConfidence Mood = "lack_confidence"
	MoodEmbarrassed    Mood = "embarrassed"
	MoodDiscomfort     Mood = "discomfort"
	MoodBored          Mood = "bored"
	MoodTriggered      Mood = "triggered"
	MoodExcited        Mood = "excited"
	MoodFocused        Mood = "focused"
	MoodSleepy         Mood = "sleepy"
)
