package models

import (
	"reflect"
	"testing"
)

func TestScope_SnapshotIsDeep(t *testing.T) {
	scope := &Scope{
		Input: map[string]any{"nested": map[string]any{"x": 1}},
		State: map[string]any{"list": []any{1, 2}},
	}

	input, state, err := scope.Snapshot()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	input["nested"].(map[string]any)["x"] = 42
	state["list"].([]any)[0] = 7
	state["added"] = true

	wantInput := map[string]any{"nested": map[string]any{"x": 1}}
	if !reflect.DeepEqual(scope.Input, wantInput) {
		t.Errorf("Expected input %v, got %v", wantInput, scope.Input)
	}
	wantState := map[string]any{"list": []any{1, 2}}
	if !reflect.DeepEqual(scope.State, wantState) {
		t.Errorf("Expected state %v, got %v", wantState, scope.State)
	}
}

func TestCopyValues(t *testing.T) {
	copied, err := CopyValues(nil)
	if err != nil || copied != nil {
		t.Errorf("Expected nil copy of nil values, got %v (%v)", copied, err)
	}

	type response struct {
		Status int
		Body   map[string]any
	}
	values := map[string]any{"resp": &response{Status: 200, Body: map[string]any{"ok": true}}}

	copied, err = CopyValues(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	resp, ok := copied["resp"].(*response)
	if !ok {
		t.Fatalf("Expected *response, got %T", copied["resp"])
	}
	resp.Body["ok"] = false

	if values["resp"].(*response).Body["ok"] != true {
		t.Error("Expected original struct to be untouched")
	}
}
