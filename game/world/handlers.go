package world

import (
	"github.com/overdrive-game/hordeai/game/ai"
)

func unpack(c *ai.Context) (*Agent, *Director) {
	ag, _ := c.Agent.(*Agent)
	d, _ := c.World.(*Director)
	return ag, d
}

// registerHandlers installs the closed set of named conditions and actions
// the archetype trees are built from. Tree construction resolves these
// names, so a typo in a tree definition fails at startup.
func registerHandlers(reg *ai.Registry) {
	// ---- Conditions ----

	reg.RegisterCondition("stunned", func(c *ai.Context) bool {
		ag, _ := unpack(c)
		return ag != nil && ag.stunRemaining > 0
	})

	reg.RegisterCondition("has_target", func(c *ai.Context) bool {
		ag, _ := unpack(c)
		return ag != nil && ag.Target != ""
	})

	// target_lost implements the chase-abandonment hysteresis: the give-up
	// radius is strictly larger than detection, so a target sitting on the
	// detection boundary does not flicker the state machine.
	reg.RegisterCondition("target_lost", func(c *ai.Context) bool {
		ag, d := unpack(c)
		if ag == nil || d == nil || ag.Target == "" {
			return true
		}
		ti, ok := d.view.Target(ag.Target)
		if !ok {
			return true
		}
		return ag.Pos.DistXZ(ti.Pos) > ag.Archetype.GiveUpRange()
	})

	reg.RegisterCondition("target_in_attack_range", func(c *ai.Context) bool {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return false
		}
		ti, ok := d.view.Target(ag.Target)
		return ok && ag.Pos.DistXZ(ti.Pos) <= ag.Archetype.AttackRange
	})

	reg.RegisterCondition("attack_ready", func(c *ai.Context) bool {
		ag, _ := unpack(c)
		return ag != nil && ag.Ready("attack")
	})

	reg.RegisterCondition("has_los_to_target", func(c *ai.Context) bool {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return false
		}
		ti, ok := d.view.Target(ag.Target)
		return ok && d.view.HasLineOfSight(ag.Pos, ti.Pos)
	})

	reg.RegisterCondition("in_coordinated_group", func(c *ai.Context) bool {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return false
		}
		g := d.groups.GroupOf(ag.ID)
		return g != nil && g.Coordinated
	})

	reg.RegisterCondition("dwelling", func(c *ai.Context) bool {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return false
		}
		return ag.Board.Float(bbDwellUntil, 0) > d.clock.Seconds()
	})

	// ---- Actions ----

	reg.RegisterAction("stand_still", func(c *ai.Context) ai.Status {
		ag, _ := unpack(c)
		if ag == nil {
			return ai.StatusFailure
		}
		ag.clearMoveTarget()
		if ag.stunRemaining <= 0 && ag.State != StateDying {
			ag.State = StateIdle
		}
		return ai.StatusSuccess
	})

	reg.RegisterAction("acquire_target", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		for _, ti := range d.view.NearbyTargets(ag.Pos, ag.DetectRange()) {
			if !d.view.HasLineOfSight(ag.Pos, ti.Pos) {
				continue
			}
			ag.Target = ti.ID
			ag.Alert = 1
			ag.State = StateChasing
			ag.Board.Set(bbLastKnownPos, ti.Pos)
			return ai.StatusSuccess
		}
		return ai.StatusFailure
	})

	reg.RegisterAction("chase_target", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		ti, ok := d.view.Target(ag.Target)
		if ok {
			ag.Board.Set(bbLastKnownPos, ti.Pos)
			ag.setMoveTarget(ti.Pos)
		} else if last, found := ag.Board.Vec(bbLastKnownPos); found {
			ag.setMoveTarget(last)
		} else {
			return ai.StatusFailure
		}
		ag.State = StateChasing
		return ai.StatusRunning
	})

	reg.RegisterAction("attack_target", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		ti, ok := d.view.Target(ag.Target)
		if !ok || ag.Pos.DistXZ(ti.Pos) > ag.Archetype.AttackRange || !ag.Ready("attack") {
			return ai.StatusFailure
		}
		ag.State = StateAttacking
		ag.StartCooldown("attack", ag.Archetype.AttackCooldown)
		d.emitAttack(ag, ti, ag.Archetype.Damage, "")
		return ai.StatusSuccess
	})

	reg.RegisterAction("use_ability", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		ti, ok := d.view.Target(ag.Target)
		if !ok {
			return ai.StatusFailure
		}
		dist := ag.Pos.DistXZ(ti.Pos)
		for _, ab := range ag.Archetype.Abilities {
			if !ag.Ready(ab.Name) || dist > ab.Range {
				continue
			}
			ag.State = StateAttacking
			ag.StartCooldown(ab.Name, ab.Cooldown)
			d.emitAttack(ag, ti, ab.Damage, ab.Name)
			return ai.StatusSuccess
		}
		return ai.StatusFailure
	})

	reg.RegisterAction("move_to_ring_slot", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		g := d.groups.GroupOf(ag.ID)
		if g == nil {
			return ai.StatusFailure
		}
		slot, ok := g.RingSlot(ag.ID, d.cfg.RingRadius)
		if !ok {
			return ai.StatusFailure
		}
		ag.setMoveTarget(slot)
		ag.State = StateChasing
		return ai.StatusRunning
	})

	reg.RegisterAction("give_up", func(c *ai.Context) ai.Status {
		ag, _ := unpack(c)
		if ag == nil {
			return ai.StatusFailure
		}
		ag.Target = ""
		ag.Alert = 0
		ag.Board.Delete(bbLastKnownPos)
		ag.clearMoveTarget()
		ag.State = StateWandering
		return ai.StatusSuccess
	})

	reg.RegisterAction("wander", func(c *ai.Context) ai.Status {
		ag, d := unpack(c)
		if ag == nil || d == nil {
			return ai.StatusFailure
		}
		ag.State = StateWandering
		if target, ok := ag.Board.Vec(bbWanderTarget); ok && ag.hasMoveTarget {
			if ag.Pos.DistXZ(target) > 1.5 {
				return ai.StatusRunning
			}
			// Arrived: dwell a little before the next leg.
			ag.Board.Delete(bbWanderTarget)
			ag.clearMoveTarget()
			ag.Board.Set(bbDwellUntil, d.clock.Seconds()+1.5+d.rng.Float64()*2)
			ag.State = StateIdle
			return ai.StatusSuccess
		}
		next := d.pickWanderTarget(ag)
		ag.Board.Set(bbWanderTarget, next)
		ag.setMoveTarget(next)
		return ai.StatusRunning
	})
}
