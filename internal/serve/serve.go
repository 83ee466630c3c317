// Package serve exposes the query engine as an MCP stdio server, so agent
// hosts can run EQL without shelling out.
package serve

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/expocli/expocli/internal/eql"
	"github.com/expocli/expocli/internal/executor"
	"github.com/expocli/expocli/internal/render"
)

// Server wraps one executor behind the MCP query tool.
type Server struct {
	exec    *executor.Executor
	version string
}

// New returns a stdio MCP server for the given executor.
func New(exec *executor.Executor, version string) *Server {
	return &Server{exec: exec, version: version}
}

// Run serves MCP over stdin and stdout until the host closes the stream.
func (s *Server) Run() error {
	m := server.NewMCPServer("expocli", s.version, server.WithToolCapabilities(false))
	m.AddTool(queryTool(), s.handleQuery)
	if err := server.ServeStdio(m); err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}

func queryTool() mcp.Tool {
	return mcp.NewTool("query",
		mcp.WithDescription("Run an EQL query over XML documents and return the result set."),
		mcp.WithString("q",
			mcp.Required(),
			mcp.Description("The EQL statement, e.g. SELECT name, price FROM /data/menus WHERE calories < 700"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: table, csv, or json. Defaults to csv."),
		),
	)
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stmt, err := req.RequireString("q")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := render.ParseFormat(req.GetString("format", string(render.FormatCSV)))
	if err != nil || format == render.FormatSQLite {
		return mcp.NewToolResultError("format must be table, csv, or json"), nil
	}

	q, err := eql.ParseQuery(stmt)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !filepath.IsAbs(q.FromPath) {
		if abs, err := filepath.Abs(q.FromPath); err == nil {
			q.FromPath = abs
		}
	}

	rows, _ := s.exec.Execute(q)
	var buf bytes.Buffer
	if err := render.Write(&buf, format, q.Columns(), rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
