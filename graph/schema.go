package graph

// StateSchemaTyped defines the structure and update logic for a typed graph state.
//
// Init returns the state a run starts from before the caller's input is
// merged in; Update merges a node's partial result into the running state.
type StateSchemaTyped[S any] interface {
	// Init returns the initial state.
	Init() S

	// Update merges the new state into the current state.
	Update(current, new S) (S, error)
}

// StructSchema implements StateSchemaTyped for struct states using a merge function.
type StructSchema[S any] struct {
	InitialValue S
	MergeFunc    func(current, new S) (S, error)
}

var _ StateSchemaTyped[struct{}] = (*StructSchema[struct{}])(nil)

// NewStructSchema creates a schema with the given initial value and merge function.
// If merge is nil, the new state replaces the current one.
func NewStructSchema[S any](initial S, merge func(current, new S) (S, error)) *StructSchema[S] {
	if merge == nil {
		merge = func(_, new S) (S, error) { return new, nil }
	}
	return &StructSchema[S]{
		InitialValue: initial,
		MergeFunc:    merge,
	}
}

// Init returns the initial value.
func (s *StructSchema[S]) Init() S {
	return s.InitialValue
}

// Update merges new into current using MergeFunc.
func (s *StructSchema[S]) Update(current, new S) (S, error) {
	return s.MergeFunc(current, new)
}
