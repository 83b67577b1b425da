// Package mcp exposes TickTick operations as Model Context Protocol tools
// over a stdio JSON-RPC 2.0 transport.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// Client is the connected-client surface the tool handlers call. It is a
// subset of the CLI's client interface so a connected CLI client passes
// straight through.
type Client interface {
	InboxID() string
	GetStatus(ctx context.Context) (*ticktick.UserStatus, error)

	GetAllTasks(ctx context.Context) ([]ticktick.Task, error)
	GetTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	CreateTask(ctx context.Context, title, projectID string, fields ticktick.TaskFields) (*ticktick.Task, error)
	UpdateTask(ctx context.Context, task *ticktick.Task) (*ticktick.Task, error)
	CompleteTask(ctx context.Context, taskID, projectID string) error
	DeleteTask(ctx context.Context, taskID, projectID string) error
	MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error
	MakeSubtask(ctx context.Context, taskID, parentID, projectID string) error
	UnparentSubtask(ctx context.Context, taskID, projectID string) error
	PinTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	UnpinTask(ctx context.Context, taskID, projectID string) (*ticktick.Task, error)
	SearchTasks(ctx context.Context, query string) ([]ticktick.Task, error)
	GetTasksByTag(ctx context.Context, tagName string) ([]ticktick.Task, error)
	GetTodayTasks(ctx context.Context) ([]ticktick.Task, error)
	GetOverdueTasks(ctx context.Context) ([]ticktick.Task, error)
	GetCompletedTasks(ctx context.Context, days, limit int) ([]ticktick.Task, error)

	GetAllProjects(ctx context.Context) ([]ticktick.Project, error)
	GetProject(ctx context.Context, projectID string) (*ticktick.Project, error)
	GetProjectData(ctx context.Context, projectID string) (*ticktick.ProjectData, error)
	CreateProject(ctx context.Context, name string, fields ticktick.ProjectFields) (*ticktick.Project, error)
	UpdateProject(ctx context.Context, projectID string, fields ticktick.ProjectFields) (*ticktick.Project, error)
	DeleteProject(ctx context.Context, projectID string) error

	GetAllFolders(ctx context.Context) ([]ticktick.Folder, error)
	CreateFolder(ctx context.Context, name string) (*ticktick.Folder, error)
	RenameFolder(ctx context.Context, folderID, name string) (*ticktick.Folder, error)
	DeleteFolder(ctx context.Context, folderID string) error

	GetColumns(ctx context.Context, projectID string) ([]ticktick.Column, error)
	CreateColumn(ctx context.Context, projectID, name string, sortOrder int64) (*ticktick.Column, error)
	UpdateColumn(ctx context.Context, columnID, projectID string, fields ticktick.ColumnFields) (*ticktick.Column, error)
	DeleteColumn(ctx context.Context, columnID, projectID string) error

	GetAllTags(ctx context.Context) ([]ticktick.Tag, error)
	CreateTag(ctx context.Context, name string, fields ticktick.TagFields) (*ticktick.Tag, error)
	UpdateTag(ctx context.Context, name string, fields ticktick.TagFields) (*ticktick.Tag, error)
	RenameTag(ctx context.Context, name, newName string) error
	MergeTags(ctx context.Context, source, target string) error
	DeleteTag(ctx context.Context, name string) error

	GetHabits(ctx context.Context) ([]ticktick.Habit, error)
	GetHabit(ctx context.Context, habitID string) (ticktick.Habit, error)
	GetHabitSections(ctx context.Context) ([]ticktick.HabitSection, error)
	CreateHabit(ctx context.Context, spec ticktick.Habit) (ticktick.Habit, error)
	UpdateHabit(ctx context.Context, habitID string, changes ticktick.Habit) (ticktick.Habit, error)
	DeleteHabit(ctx context.Context, habitID string) error
	CheckinHabit(ctx context.Context, habitID string, value float64, checkinDate string) (ticktick.Habit, error)
	GetHabitCheckins(ctx context.Context, habitIDs []string, afterStamp int) (map[string][]ticktick.HabitCheckin, error)

	GetProfile(ctx context.Context) (map[string]any, error)
	GetStatistics(ctx context.Context) (map[string]any, error)

	GetFocusHeatmap(ctx context.Context, days int) ([]ticktick.FocusHeatmapEntry, error)
	GetFocusByTag(ctx context.Context, days int) (map[string]float64, error)
}

// taskAbandoner marks clients with a dedicated abandon call; the rest fall
// back to an update.
type taskAbandoner interface {
	AbandonTask(ctx context.Context, taskID, projectID string) error
}

// Config selects which tools to serve and how to localize timestamps.
type Config struct {
	EnabledTools   []string
	EnabledModules []string
	Location       *time.Location
	TaskTimeZone   string
}

// Server speaks MCP over a line-delimited JSON-RPC stream.
type Server struct {
	handler *toolHandler
	tools   []toolDef
	stderr  io.Writer
}

// NewServer builds a server exposing the configured tool set. Unknown names
// in the tool or module filters are reported to stderr and skipped.
func NewServer(client Client, stderr io.Writer, cfg Config) *Server {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	handler := &toolHandler{client: client, loc: loc, taskTimeZone: cfg.TaskTimeZone}
	return &Server{
		handler: handler,
		tools:   selectTools(allTools(handler), cfg, stderr),
		stderr:  stderr,
	}
}

// JSON-RPC message types.

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      serverInfo         `json:"serverInfo"`
	Capabilities    serverCapabilities `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type serverCapabilities struct {
	Tools *toolsCapability `json:"tools,omitempty"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type listToolsResult struct {
	Tools []toolInfo `json:"tools"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type callToolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Serve reads newline-delimited JSON-RPC requests from in and writes
// responses to out until EOF or context cancellation.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.send(out, &rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "Parse error"}})
			continue
		}

		resp := s.handle(ctx, &req)
		if resp != nil {
			if err := s.send(out, resp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, req *rpcRequest) *rpcResponse {
	switch req.Method {
	case "initialize":
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: initializeResult{
				ProtocolVersion: "2024-11-05",
				ServerInfo:      serverInfo{Name: "ticktick", Version: "1.0.0"},
				Capabilities:    serverCapabilities{Tools: &toolsCapability{}},
			},
		}
	case "tools/list":
		infos := make([]toolInfo, len(s.tools))
		for i, t := range s.tools {
			infos[i] = toolInfo{Name: t.name, Description: t.description, InputSchema: t.schema}
		}
		return &rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: listToolsResult{Tools: infos}}
	case "tools/call":
		return s.handleCall(ctx, req)
	case "notifications/initialized":
		return nil
	default:
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: -32601, Message: "Method not found"},
		}
	}
}

func (s *Server) handleCall(ctx context.Context, req *rpcRequest) *rpcResponse {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: -32602, Message: "Invalid params"},
		}
	}

	var def *toolDef
	for i := range s.tools {
		if s.tools[i].name == params.Name {
			def = &s.tools[i]
			break
		}
	}
	if def == nil {
		return callError(req.ID, fmt.Errorf("unknown tool: %s", params.Name))
	}

	result, err := def.run(ctx, params.Arguments)
	if err != nil {
		return callError(req.ID, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return callError(req.ID, err)
	}
	return &rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: callToolResult{
			Content: []toolContent{{Type: "text", Text: string(data)}},
		},
	}
}

func callError(id any, err error) *rpcResponse {
	return &rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: callToolResult{
			Content: []toolContent{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		},
	}
}

func (s *Server) send(out io.Writer, resp *rpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
