package world

import (
	"fmt"

	"github.com/overdrive-game/hordeai/game/ai"
)

// treeDefs declares the archetype behavior trees. Priorities read top to
// bottom: being stunned beats everything, engaging a live target beats
// searching, searching beats wandering.
func treeDefs() map[string]ai.NodeDef {
	stunnedBranch := ai.Seq(ai.Cond("stunned"), ai.Act("stand_still"))
	idleBranch := ai.Seq(ai.Cond("dwelling"), ai.Act("stand_still"))

	// pursuit: the common chassis, straight chase with a coordinated ring
	// approach when grouped.
	pursuit := ai.Sel(
		stunnedBranch,
		ai.Seq(ai.Cond("has_target"), ai.Sel(
			ai.Seq(ai.Cond("target_lost"), ai.Act("give_up")),
			ai.Seq(ai.Cond("target_in_attack_range"), ai.Cond("attack_ready"), ai.Act("attack_target")),
			ai.Act("use_ability"),
			ai.Seq(ai.Cond("in_coordinated_group"), ai.Act("move_to_ring_slot")),
			ai.Act("chase_target"),
		)),
		ai.Act("acquire_target"),
		idleBranch,
		ai.Act("wander"),
	)

	// rush: fast flankers. Leads with the gap-closing ability and never
	// waits for ring formation.
	rush := ai.Sel(
		stunnedBranch,
		ai.Seq(ai.Cond("has_target"), ai.Sel(
			ai.Seq(ai.Cond("target_lost"), ai.Act("give_up")),
			ai.Seq(ai.Cond("target_in_attack_range"), ai.Cond("attack_ready"), ai.Act("attack_target")),
			ai.Act("use_ability"),
			ai.Act("chase_target"),
		)),
		ai.Act("acquire_target"),
		ai.Act("wander"),
	)

	// ambush: only commits with line of sight; without it, keeps moving on
	// the last known position.
	ambush := ai.Sel(
		stunnedBranch,
		ai.Seq(ai.Cond("has_target"), ai.Sel(
			ai.Seq(ai.Cond("target_lost"), ai.Act("give_up")),
			ai.Seq(ai.Cond("target_in_attack_range"), ai.Cond("attack_ready"), ai.Act("attack_target")),
			ai.Seq(ai.Cond("has_los_to_target"), ai.Sel(
				ai.Act("use_ability"),
				ai.Act("chase_target"),
			)),
			ai.Act("chase_target"),
		)),
		ai.Act("acquire_target"),
		idleBranch,
		ai.Act("wander"),
	)

	return map[string]ai.NodeDef{
		"pursuit": pursuit,
		"rush":    rush,
		"ambush":  ambush,
	}
}

// buildTrees resolves every archetype tree against the registry. Any
// unknown leaf name surfaces here, at construction.
func buildTrees(reg *ai.Registry) (map[string]*ai.BehaviorTree, error) {
	out := make(map[string]*ai.BehaviorTree)
	for name, def := range treeDefs() {
		tree, err := reg.Build(def)
		if err != nil {
			return nil, fmt.Errorf("build tree %q: %w", name, err)
		}
		out[name] = tree
	}
	return out, nil
}
