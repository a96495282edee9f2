package config

import (
	"sort"

	"github.com/san-kum/statefield/internal/dimension"
)

// Presets are named starting states for the record command and the board.
// Axes a preset does not mention are 0.
var Presets = map[string]map[dimension.Key]int{
	"baseline": uniform(3),
	"zero":     uniform(0),
	"max":      uniform(5),
	"flow": {
		dimension.Energy: 4, dimension.Focus: 5, dimension.Money: 3,
		dimension.Relationships: 3, dimension.CreativeOutput: 5, dimension.SkillGrowth: 4,
		dimension.Health: 4, dimension.Environment: 4, dimension.SocialPresence: 2,
		dimension.Opportunities: 3, dimension.ChaosLoad: 1, dimension.LongTermTrajectory: 4,
	},
	"burnout": {
		dimension.Energy: 1, dimension.Focus: 1, dimension.Money: 3,
		dimension.Relationships: 2, dimension.CreativeOutput: 1, dimension.SkillGrowth: 1,
		dimension.Health: 1, dimension.Environment: 2, dimension.SocialPresence: 1,
		dimension.Opportunities: 2, dimension.ChaosLoad: 4, dimension.LongTermTrajectory: 2,
	},
	"storm": {
		dimension.Energy: 2, dimension.Focus: 1, dimension.Money: 1,
		dimension.Relationships: 2, dimension.CreativeOutput: 2, dimension.SkillGrowth: 2,
		dimension.Health: 2, dimension.Environment: 1, dimension.SocialPresence: 3,
		dimension.Opportunities: 3, dimension.ChaosLoad: 5, dimension.LongTermTrajectory: 1,
	},
	"drift": {
		dimension.Energy: 3, dimension.Focus: 2, dimension.Money: 3,
		dimension.Relationships: 3, dimension.CreativeOutput: 2, dimension.SkillGrowth: 1,
		dimension.Health: 3, dimension.Environment: 3, dimension.SocialPresence: 2,
		dimension.Opportunities: 1, dimension.ChaosLoad: 2, dimension.LongTermTrajectory: 1,
	},
}

func uniform(v int) map[dimension.Key]int {
	m := make(map[dimension.Key]int, dimension.Count)
	for _, k := range dimension.Keys() {
		m[k] = v
	}
	return m
}

// GetPreset returns a fresh state vector for the named preset, or nil.
func GetPreset(name string) dimension.StateVector {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	sv := dimension.New(dimension.Min)
	for k, v := range p {
		sv.Set(k, v)
	}
	return sv
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
