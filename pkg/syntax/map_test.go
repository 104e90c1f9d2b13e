package syntax

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToMap(t *testing.T) {
	script := &Script{Commands: []Command{
		&Pipeline{Stages: []Command{
			&Simple{Name: "ls", Args: []string{"-l"}},
			&Simple{Name: "grep", Args: []string{"x"},
				Redirs: []Redir{{Mode: Write, Target: "out", FD: -1}}},
		}},
	}}
	want := map[string]any{
		"commands": []any{
			map[string]any{
				"type":       "pipeline",
				"background": false,
				"stages": []any{
					map[string]any{
						"type": "simple", "name": "ls", "args": []any{"-l"},
						"assignments": []any{}, "redirs": []any{}},
					map[string]any{
						"type": "simple", "name": "grep", "args": []any{"x"},
						"assignments": []any{},
						"redirs": []any{
							map[string]any{"mode": "write", "target": "out"}}},
				},
			},
		},
	}
	got := script.ToMap()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToMap (-want +got):\n%s", diff)
	}

	// The map form must be JSON-encodable.
	if _, err := json.Marshal(got); err != nil {
		t.Errorf("json.Marshal: %v", err)
	}
}

func TestToMap_Compound(t *testing.T) {
	script := &Script{Commands: []Command{
		&Compound{Kind: &If{
			Condition: []Command{&Simple{Name: "true"}},
			Then:      []Command{&Simple{Name: "a"}},
			Else:      []Command{&Simple{Name: "b"}},
		}},
	}}
	got := script.ToMap()["commands"].([]any)[0].(map[string]any)
	if got["type"] != "if" {
		t.Errorf(`got type %v, want "if"`, got["type"])
	}
	if _, ok := got["else"]; !ok {
		t.Error("else branch missing from map")
	}
	if _, ok := got["redirs"]; !ok {
		t.Error("redirs missing from compound map")
	}
}
