// Package server implements the MCP (Model Context Protocol) server that
// exposes region partitioning to MCP clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Partitioning:
//   - image_partition: Partition an image and write the optimized PNG
//   - image_partition_regions: List the rectangles of a partition, with an
//     optional outlined preview
//
// Analysis Helpers:
//   - image_compare: Error metrics between two images of equal size
//
// Tolerance and optimizer settings default to the config.Config the server
// was created with; tools may override them per call.
//
// # Image Caching
//
// Source images are cached by path for the lifetime of the server process.
// image_partition runs through the pipeline package and does not populate
// this cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(config.Default(), logger)
//	if err := srv.Run(); err != nil {
//	    logger.Error("server failed", "err", err)
//	}
package server
