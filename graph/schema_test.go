package graph

import (
	"testing"
)

func TestNewStructSchema_DefaultMergeReplaces(t *testing.T) {
	schema := NewStructSchema(TestState{Name: "init"}, nil)

	if schema.MergeFunc == nil {
		t.Fatal("MergeFunc should not be nil when nil is passed")
	}
	if got := schema.Init(); got.Name != "init" {
		t.Errorf("Expected initial name to be 'init', got '%s'", got.Name)
	}

	got, err := schema.Update(TestState{Name: "old", Count: 1}, TestState{Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "" || got.Count != 2 {
		t.Errorf("default merge should replace the state, got %+v", got)
	}
}

func TestStructSchema_CustomMerge(t *testing.T) {
	schema := NewStructSchema(TestState{}, mergeTestState)

	got, err := schema.Update(TestState{Name: "kept", Count: 1, Path: []string{"a"}}, TestState{Path: []string{"b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "kept" || got.Count != 1 {
		t.Errorf("unset fields must not be cleared, got %+v", got)
	}
	if len(got.Path) != 2 {
		t.Errorf("expected path to be appended, got %v", got.Path)
	}
}
