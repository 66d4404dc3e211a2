package ai

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ConditionFn evaluates a boolean predicate against the current world
// snapshot and the agent's blackboard.
type ConditionFn func(*Context) bool

// ActionFn performs a side-effecting behavior (move, attack, use ability).
type ActionFn func(*Context) Status

// Kind tags a NodeDef variant.
type Kind int

const (
	KindSelector Kind = iota
	KindSequence
	KindCondition
	KindAction
	KindInverter
)

// NodeDef declares a tree node. Condition and Action defs reference
// handlers by name; names are resolved against the Registry when the tree
// is built, so an unknown name fails at construction instead of silently
// failing at runtime.
type NodeDef struct {
	Kind     Kind
	Name     string
	Children []NodeDef
}

// Convenience constructors keeping archetype tree declarations readable.

func Sel(children ...NodeDef) NodeDef { return NodeDef{Kind: KindSelector, Children: children} }
func Seq(children ...NodeDef) NodeDef { return NodeDef{Kind: KindSequence, Children: children} }
func Cond(name string) NodeDef        { return NodeDef{Kind: KindCondition, Name: name} }
func Act(name string) NodeDef         { return NodeDef{Kind: KindAction, Name: name} }
func Not(child NodeDef) NodeDef       { return NodeDef{Kind: KindInverter, Children: []NodeDef{child}} }

// Registry holds the closed set of named conditions and actions available
// to tree construction.
type Registry struct {
	conditions map[string]ConditionFn
	actions    map[string]ActionFn
	logger     *zap.Logger
	warned     sync.Map // "kind:name" -> struct{}, logged once each
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		conditions: make(map[string]ConditionFn),
		actions:    make(map[string]ActionFn),
		logger:     logger,
	}
}

func (r *Registry) RegisterCondition(name string, fn ConditionFn) {
	r.conditions[name] = fn
}

func (r *Registry) RegisterAction(name string, fn ActionFn) {
	r.actions[name] = fn
}

// Build resolves a NodeDef into an executable tree. Unknown condition or
// action names are construction errors.
func (r *Registry) Build(def NodeDef) (*BehaviorTree, error) {
	root, err := r.buildNode(def)
	if err != nil {
		return nil, err
	}
	return &BehaviorTree{Root: root}, nil
}

func (r *Registry) buildNode(def NodeDef) (Node, error) {
	switch def.Kind {
	case KindSelector, KindSequence:
		children := make([]Node, 0, len(def.Children))
		for _, cd := range def.Children {
			child, err := r.buildNode(cd)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if def.Kind == KindSelector {
			return &Selector{Children: children}, nil
		}
		return &Sequence{Children: children}, nil
	case KindCondition:
		fn, ok := r.conditions[def.Name]
		if !ok {
			return nil, fmt.Errorf("ai: unknown condition %q", def.Name)
		}
		return &ConditionNode{Name: def.Name, Fn: fn, reg: r}, nil
	case KindAction:
		fn, ok := r.actions[def.Name]
		if !ok {
			return nil, fmt.Errorf("ai: unknown action %q", def.Name)
		}
		return &ActionNode{Name: def.Name, Fn: fn, reg: r}, nil
	case KindInverter:
		if len(def.Children) != 1 {
			return nil, fmt.Errorf("ai: inverter needs exactly one child, got %d", len(def.Children))
		}
		child, err := r.buildNode(def.Children[0])
		if err != nil {
			return nil, err
		}
		return &Inverter{Child: child}, nil
	default:
		return nil, fmt.Errorf("ai: unknown node kind %d", def.Kind)
	}
}

// warnMissing logs a missing handler once per name and kind. Evaluation of
// other agents is never interrupted by a bad leaf.
func (r *Registry) warnMissing(kind, name string) {
	key := kind + ":" + name
	if _, loaded := r.warned.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	r.logger.Warn("behavior tree leaf has no handler, treating as failure",
		zap.String("kind", kind),
		zap.String("name", name))
}
