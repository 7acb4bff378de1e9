package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"spots_detect",
		"spots_detect_batch",
		"spots_overlay",
		"regions_from_pixels",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
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
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties missing")
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("InputSchema required missing")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %s is not defined", r)
				}
			}
		})
	}
}

func TestToolDefinitions_DetectionPropertiesShared(t *testing.T) {
	shared := []string{"threshold", "invert", "blur_sigma", "min_area", "max_area", "boundary", "include_mask", "region"}

	for _, tool := range GetToolDefinitions() {
		switch tool.Name {
		case "spots_detect", "spots_detect_batch", "spots_overlay":
		default:
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, p := range shared {
			if p == "include_mask" && tool.Name == "spots_overlay" {
				continue
			}
			if _, ok := props[p]; !ok {
				t.Errorf("%s: missing detection property %s", tool.Name, p)
			}
		}
	}
}

func TestToolDefinitions_OverlayOmitsIncludeMask(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "spots_overlay" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		if _, ok := props["include_mask"]; ok {
			t.Error("spots_overlay should not advertise include_mask")
		}
		return
	}
	t.Fatal("spots_overlay not defined")
}
