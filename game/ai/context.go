package ai

// Context is passed to every behavior tree node during a decision pass.
// Agent and World are owned by the caller; leaf handlers registered by the
// world layer assert them back to their concrete types. The tree machinery
// itself never looks inside either.
type Context struct {
	Agent   any
	World   any
	Board   *Blackboard
	DeltaMS int64 // milliseconds since the agent's previous decision pass
}
