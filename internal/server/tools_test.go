package server

import (
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not defined", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	want := []string{
		"image_load",
		"image_dimensions",
		"image_partition",
		"image_partition_regions",
		"image_compare",
	}

	tools := GetToolDefinitions()
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tool %d: got %s, want %s", i, tools[i].Name, name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("InputSchema should list required parameters")
			}
			// Every required parameter must be described.
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredParams(t *testing.T) {
	tests := map[string][]string{
		"image_load":              {"path"},
		"image_dimensions":        {"path"},
		"image_partition":         {"path", "output_path"},
		"image_partition_regions": {"path"},
		"image_compare":           {"path_a", "path_b"},
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got := toolByName(t, name).InputSchema["required"].([]string)
			if len(got) != len(want) {
				t.Fatalf("required: got %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("required: got %v, want %v", got, want)
				}
			}
		})
	}
}

func TestToolDefinitions_RegionDefaults(t *testing.T) {
	props := toolByName(t, "image_partition_regions").InputSchema["properties"].(map[string]interface{})

	defaults := map[string]interface{}{
		"limit":        100,
		"preview":      false,
		"preview_size": 512,
	}
	for param, want := range defaults {
		p, ok := props[param].(map[string]interface{})
		if !ok {
			t.Errorf("%s: missing schema", param)
			continue
		}
		if p["default"] != want {
			t.Errorf("%s: default got %v, want %v", param, p["default"], want)
		}
	}

	if _, ok := props["tolerance"].(map[string]interface{})["default"]; ok {
		t.Error("tolerance should fall back to the server configuration, not a schema default")
	}
}
