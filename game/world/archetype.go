package world

import (
	"time"

	"github.com/overdrive-game/hordeai/game/spawn"
)

// Ability is a special attack an archetype can use on its own cooldown.
type Ability struct {
	Name     string
	Damage   float64
	Range    float64
	Cooldown time.Duration
}

// Archetype is an agent-type template: base stats, ability list and the
// behavior tree driving it. Immutable and shared between all agents of the
// type.
type Archetype struct {
	Name        string
	Tier        spawn.Tier
	MaxHealth   float64
	Speed       float64
	Damage      float64
	AttackRange float64
	DetectRange float64
	// GiveUpFactor scales detection range into the chase-abandonment
	// radius. Kept per-archetype; pack hunters chase farther.
	GiveUpFactor   float64
	Intelligence   float64 // scales effective detection range
	AttackCooldown time.Duration
	Abilities      []Ability
	TreeName       string
}

// GiveUpRange is the hysteresis radius: strictly larger than detection so
// a target on the detection boundary does not flicker in and out.
func (a *Archetype) GiveUpRange() float64 {
	f := a.GiveUpFactor
	if f <= 1 {
		f = 1.5
	}
	return a.DetectRange * f
}

// DefaultArchetypes maps each spawn tier to its agent template.
func DefaultArchetypes() map[spawn.Tier]*Archetype {
	return map[spawn.Tier]*Archetype{
		spawn.TierCommon: {
			Name:           "shambler",
			Tier:           spawn.TierCommon,
			MaxHealth:      60,
			Speed:          4.5,
			Damage:         8,
			AttackRange:    2.5,
			DetectRange:    35,
			GiveUpFactor:   1.5,
			Intelligence:   0.8,
			AttackCooldown: 1200 * time.Millisecond,
			TreeName:       "pursuit",
		},
		spawn.TierFast: {
			Name:           "sprinter",
			Tier:           spawn.TierFast,
			MaxHealth:      40,
			Speed:          9.0,
			Damage:         6,
			AttackRange:    2.0,
			DetectRange:    45,
			GiveUpFactor:   2.0, // pack hunter, chases far past detection
			Intelligence:   1.0,
			AttackCooldown: 800 * time.Millisecond,
			Abilities: []Ability{
				{Name: "lunge", Damage: 10, Range: 6, Cooldown: 6 * time.Second},
			},
			TreeName: "rush",
		},
		spawn.TierHeavy: {
			Name:           "crusher",
			Tier:           spawn.TierHeavy,
			MaxHealth:      180,
			Speed:          3.0,
			Damage:         22,
			AttackRange:    3.5,
			DetectRange:    30,
			GiveUpFactor:   1.3,
			Intelligence:   0.6,
			AttackCooldown: 2500 * time.Millisecond,
			Abilities: []Ability{
				{Name: "slam", Damage: 35, Range: 4, Cooldown: 10 * time.Second},
			},
			TreeName: "pursuit",
		},
		spawn.TierRare: {
			Name:           "stalker",
			Tier:           spawn.TierRare,
			MaxHealth:      90,
			Speed:          6.5,
			Damage:         16,
			AttackRange:    2.5,
			DetectRange:    60,
			GiveUpFactor:   1.8,
			Intelligence:   1.4,
			AttackCooldown: 1500 * time.Millisecond,
			Abilities: []Ability{
				{Name: "shriek", Damage: 0, Range: 20, Cooldown: 15 * time.Second},
				{Name: "pounce", Damage: 24, Range: 8, Cooldown: 8 * time.Second},
			},
			TreeName: "ambush",
		},
	}
}
