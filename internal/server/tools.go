package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, transparency and file size. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Partitioning
		{
			Name:        "image_partition",
			Description: "Approximate an image with flat-color rectangles and write the result as an optimized PNG. Returns region count, sizes, timings and error metrics (PSNR, CIE76 delta E).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the PNG to write",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Largest variance score a region may keep. 0 reproduces the image exactly. Defaults to the server configuration.",
						"minimum":     0,
					},
					"optimize": map[string]interface{}{
						"type":        "boolean",
						"description": "Run the lossless PNG optimizer. Defaults to the server configuration.",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "image_partition_regions",
			Description: "Partition an image without writing it and list the resulting rectangles with their colors. Optionally returns a base64 preview with region outlines drawn over the flat-color rendering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Largest variance score a region may keep. Defaults to the server configuration.",
						"minimum":     0,
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of regions to list, largest first. Default 100",
						"default":     100,
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include an outlined preview image. Default false",
						"default":     false,
					},
					"preview_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest side of the preview in pixels. Default 512",
						"default":     512,
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (e.g. '#FF000080'). Default semi-transparent red",
					},
				},
				"required": []string{"path"},
			},
		},

		// Analysis Helpers
		{
			Name:        "image_compare",
			Description: "Compare two images of equal size pixel by pixel. Returns MSE, PSNR, mean and max CIE76 delta E, and the count of differing pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the first image",
					},
					"path_b": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the second image",
					},
				},
				"required": []string{"path_a", "path_b"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
