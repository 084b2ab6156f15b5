// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes note cover tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notecover/internal/apperr"
	"github.com/starford/notecover/internal/coverservice"
	"github.com/starford/notecover/internal/journal"
)

const formatURI = "notecover://cover-format"

// ImportLog lists past import attempts.
type ImportLog interface {
	Recent(ctx context.Context, note string, limit int) ([]journal.Entry, error)
}

// Server wraps the MCP server with cover tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *coverservice.Service
	imports ImportLog
}

// New creates a new MCP server with all tools registered. imports may be
// nil, in which case list_imports is not offered.
func New(svc *coverservice.Service, imports ImportLog, version string) *Server {
	s := &Server{svc: svc, imports: imports}

	s.mcp = server.NewMCPServer(
		"notecover",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_cover",
		mcp.WithDescription("Resolve the cover image of a note. Returns the panel view: "+
			"state (no-image, image, not-found), the reference and the stored file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.getCover)

	s.mcp.AddTool(mcp.NewTool("set_cover",
		mcp.WithDescription("Point a note's cover key at an image already in the vault. "+
			"A bare file name is stored as a [[wikilink]]; a path is stored as written. "+
			"See the "+formatURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
		mcp.WithString("reference", mcp.Required(), mcp.Description("Image file name, [[link]] or path")),
	), s.setCover)

	s.mcp.AddTool(mcp.NewTool("import_image",
		mcp.WithDescription("Download an image (http/https URL or base64 data URI), store it in the "+
			"vault's attachment folder and make it the note's cover."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:image/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional file name; derived from the URL when empty")),
	), s.importImage)

	s.mcp.AddTool(mcp.NewTool("list_images",
		mcp.WithDescription("List every image file stored in the vault."),
	), s.listImages)

	if imports != nil {
		s.mcp.AddTool(mcp.NewTool("list_imports",
			mcp.WithDescription("Recent image import attempts, newest first."),
			mcp.WithString("path", mcp.Description("Optional note path to filter by")),
			mcp.WithNumber("limit", mcp.Description("Maximum entries (default 50)")),
		), s.listImports)
	}

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Cover Format",
			mcp.WithResourceDescription("How notes reference their cover image."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(path string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) getCover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Cover(ctx, path)
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) setCover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := req.RequireString("reference")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.SetCover(ctx, path, ref)
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) listImages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	images, err := s.svc.Images(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(images), nil
}

func (s *Server) listImports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note := ""
	if v, pErr := req.RequireString("path"); pErr == nil {
		note = v
	}
	limit := 0
	if v, lErr := req.RequireFloat("limit"); lErr == nil {
		limit = int(v)
	}
	entries, err := s.imports.Recent(ctx, note, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return jsonResult(entries), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     CoverFormat(s.svc.CoverKey()),
		},
	}, nil
}
