package dimension

import "strings"

type Key string

const (
	Energy             Key = "Energy"
	Focus              Key = "Focus"
	Money              Key = "Money"
	Relationships      Key = "Relationships"
	CreativeOutput     Key = "Creative_Output"
	SkillGrowth        Key = "Skill_Growth"
	Health             Key = "Health"
	Environment        Key = "Environment"
	SocialPresence     Key = "Social_Presence"
	Opportunities      Key = "Opportunities"
	ChaosLoad          Key = "Chaos_Load"
	LongTermTrajectory Key = "Long_term_Trajectory"
)

const (
	Min = 0
	Max = 5
)

type Dimension struct {
	Key   Key
	Label string
}

// Registry is the canonical axis order. Index positions are the legacy
// positional encoding; Chaos_Load sits at index 10.
var Registry = []Dimension{
	{Energy, "Energy"},
	{Focus, "Focus"},
	{Money, "Money"},
	{Relationships, "Relationships"},
	{CreativeOutput, "Creative Output"},
	{SkillGrowth, "Skill Growth"},
	{Health, "Health"},
	{Environment, "Environment"},
	{SocialPresence, "Social Presence"},
	{Opportunities, "Opportunities"},
	{ChaosLoad, "Chaos Load"},
	{LongTermTrajectory, "Long term Trajectory"},
}

// Count is the number of registered dimensions.
var Count = len(Registry)

func Keys() []Key {
	keys := make([]Key, len(Registry))
	for i, d := range Registry {
		keys[i] = d.Key
	}
	return keys
}

// Index returns the positional index of k, or -1.
func Index(k Key) int {
	for i, d := range Registry {
		if d.Key == k {
			return i
		}
	}
	return -1
}

// Lookup resolves a key or display label. Matching ignores case and treats
// spaces, dashes and underscores alike, so "chaos load" finds Chaos_Load.
func Lookup(name string) (Dimension, bool) {
	want := fold(name)
	for _, d := range Registry {
		if fold(string(d.Key)) == want {
			return d, true
		}
	}
	return Dimension{}, false
}

func (k Key) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
