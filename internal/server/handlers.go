package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/regionpng/internal/imaging"
	"github.com/ironsheep/regionpng/internal/partition"
	"github.com/ironsheep/regionpng/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_partition").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return failure(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return failure(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Calls into the imaging, partition or pipeline packages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Partitioning
	case "image_partition":
		return s.handleImagePartition(args)
	case "image_partition_regions":
		return s.handleImagePartitionRegions(args)

	// Analysis Helpers
	case "image_compare":
		return s.handleImageCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Partitioning Handlers ===

type imagePartitionArgs struct {
	Path       string   `json:"path"`
	OutputPath string   `json:"output_path"`
	Tolerance  *float64 `json:"tolerance"`
	Optimize   *bool    `json:"optimize"`
}

func (s *Server) handleImagePartition(args json.RawMessage) (interface{}, error) {
	var a imagePartitionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.OutputPath == "" {
		return nil, fmt.Errorf("path and output_path are required")
	}

	cfg := s.cfg
	if a.Tolerance != nil {
		cfg.Tolerance = *a.Tolerance
	}
	if a.Optimize != nil {
		cfg.Optimize.Enabled = *a.Optimize
	}
	p, err := pipeline.New(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	report, err := p.ProcessFile(context.Background(), a.Path, a.OutputPath)
	if err != nil {
		return nil, err
	}
	// The file at OutputPath changed; a cached decode of it is stale.
	s.cache.Evict(a.OutputPath)
	return report, nil
}

type imagePartitionRegionsArgs struct {
	Path        string   `json:"path"`
	Tolerance   *float64 `json:"tolerance"`
	Limit       int      `json:"limit"`
	Preview     bool     `json:"preview"`
	PreviewSize int      `json:"preview_size"`
	LineColor   string   `json:"line_color"`
}

// RegionInfo describes one rectangle of a partition.
type RegionInfo struct {
	X      int                 `json:"x"`
	Y      int                 `json:"y"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Score  float64             `json:"score"`
	Color  imaging.ColorResult `json:"color"`
}

// RegionsResult is the response of image_partition_regions.
type RegionsResult struct {
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	Tolerance   float64                `json:"tolerance"`
	RegionCount int                    `json:"region_count"`
	Truncated   bool                   `json:"truncated"`
	Regions     []RegionInfo           `json:"regions"`
	Preview     *imaging.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleImagePartitionRegions(args json.RawMessage) (interface{}, error) {
	var a imagePartitionRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = 100
	}
	if a.PreviewSize <= 0 {
		a.PreviewSize = 512
	}

	opts := s.cfg.PartitionOptions()
	if a.Tolerance != nil {
		opts.Tolerance = *a.Tolerance
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := partition.Run(img, opts)
	if err != nil {
		return nil, err
	}

	// List the largest regions first; ties keep reading order.
	order := make([]partition.Region, len(res.Leaves))
	copy(order, res.Leaves)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Area() > order[j].Area()
	})

	n := len(order)
	if n > a.Limit {
		n = a.Limit
	}
	regions := make([]RegionInfo, n)
	for i, r := range order[:n] {
		regions[i] = RegionInfo{
			X:      r.Bounds.Min.X,
			Y:      r.Bounds.Min.Y,
			Width:  r.Bounds.Dx(),
			Height: r.Bounds.Dy(),
			Score:  r.Score,
			Color:  imaging.DescribeColor(r.Color()),
		}
	}

	result := &RegionsResult{
		Width:       res.Width,
		Height:      res.Height,
		Tolerance:   opts.Tolerance,
		RegionCount: len(res.Leaves),
		Truncated:   n < len(res.Leaves),
		Regions:     regions,
	}

	if a.Preview {
		rects := make([]image.Rectangle, len(res.Leaves))
		for i, r := range res.Leaves {
			rects[i] = r.Bounds
		}
		outlined := imaging.Outline(res.Image, rects, a.LineColor)
		result.Preview, err = imaging.Preview(outlined, a.PreviewSize)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// === Analysis Helper Handlers ===

type imageCompareArgs struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	imgA, err := s.cache.Load(a.PathA)
	if err != nil {
		return nil, err
	}
	imgB, err := s.cache.Load(a.PathB)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(imgA, imgB)
}
