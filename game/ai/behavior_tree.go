package ai

// Status is the result of a behavior tree node tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Node is a single node in a behavior tree.
type Node interface {
	Tick(ctx *Context) Status
}

// ---- Composite nodes ----

// Selector succeeds as soon as one child does not fail (logical OR,
// left-to-right priority order).
type Selector struct {
	Children []Node
}

func (s *Selector) Tick(ctx *Context) Status {
	for _, c := range s.Children {
		switch c.Tick(ctx) {
		case StatusSuccess:
			return StatusSuccess
		case StatusRunning:
			return StatusRunning
		}
	}
	return StatusFailure
}

// Sequence succeeds only when all children succeed (logical AND,
// short-circuits on the first failure).
type Sequence struct {
	Children []Node
}

func (s *Sequence) Tick(ctx *Context) Status {
	for _, c := range s.Children {
		switch c.Tick(ctx) {
		case StatusFailure:
			return StatusFailure
		case StatusRunning:
			return StatusRunning
		}
	}
	return StatusSuccess
}

// ---- Leaf nodes ----

// ConditionNode evaluates a named boolean predicate.
type ConditionNode struct {
	Name string
	Fn   ConditionFn
	reg  *Registry
}

func (cn *ConditionNode) Tick(ctx *Context) Status {
	if cn.Fn == nil {
		if cn.reg != nil {
			cn.reg.warnMissing("condition", cn.Name)
		}
		return StatusFailure
	}
	if cn.Fn(ctx) {
		return StatusSuccess
	}
	return StatusFailure
}

// ActionNode executes a named side-effecting action.
type ActionNode struct {
	Name string
	Fn   ActionFn
	reg  *Registry
}

func (an *ActionNode) Tick(ctx *Context) Status {
	if an.Fn == nil {
		if an.reg != nil {
			an.reg.warnMissing("action", an.Name)
		}
		return StatusFailure
	}
	return an.Fn(ctx)
}

// ---- Decorator nodes ----

// Inverter negates the result of its child.
type Inverter struct {
	Child Node
}

func (i *Inverter) Tick(ctx *Context) Status {
	switch i.Child.Tick(ctx) {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return StatusRunning
	}
}

// ---- BehaviorTree root ----

// BehaviorTree wraps the root node. Trees are immutable after construction
// and shared read-only between all agents of an archetype; per-agent state
// lives in the agent's blackboard. Every decision pass re-evaluates from
// the root, so a Running result is not resumed positionally.
type BehaviorTree struct {
	Root Node
}

// Tick runs one decision pass of the behavior tree.
func (bt *BehaviorTree) Tick(ctx *Context) Status {
	if bt == nil || bt.Root == nil {
		return StatusFailure
	}
	return bt.Root.Tick(ctx)
}
