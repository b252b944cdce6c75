package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/agent"
	"github.com/entrhq/autopilot/pkg/tools"
	browsertools "github.com/entrhq/autopilot/pkg/tools/browser"
)

// handleMessage dispatches one inbound protocol message and returns the
// response to push. Notifications (no id) get no response.
func (s *Server) handleMessage(ctx context.Context, conn *Connection, msg *JSONRPCMessage) *JSONRPCMessage {
	if msg.JSONRPC != JSONRPCVersion || msg.Method == "" {
		return newErrorResponse(msg.ID, CodeInvalidRequest, "invalid JSON-RPC request")
	}

	switch msg.Method {
	case MethodToolsList:
		return s.handleToolsList(msg)
	case MethodToolsCall:
		return s.handleToolsCall(ctx, conn, msg)
	case MethodAgentRun:
		return s.handleAgentRun(ctx, msg)
	default:
		return newErrorResponse(msg.ID, CodeMethodNotFound, fmt.Sprintf("unknown method: %s", msg.Method))
	}
}

func (s *Server) handleToolsList(msg *JSONRPCMessage) *JSONRPCMessage {
	catalog := s.registry.List()
	result := ToolsListResult{Tools: make([]ToolInfo, 0, len(catalog))}
	for _, t := range catalog {
		result.Tools = append(result.Tools, ToolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		})
	}
	return newResponse(msg.ID, result)
}

func (s *Server) handleToolsCall(ctx context.Context, conn *Connection, msg *JSONRPCMessage) *JSONRPCMessage {
	var params ToolsCallParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return newErrorResponse(msg.ID, CodeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
	}
	if params.Name == "" {
		return newErrorResponse(msg.ID, CodeInvalidParams, "tool name is required")
	}

	res, err := s.registry.Dispatch(ctx, params.Name, params.Arguments)
	if err != nil {
		// Infrastructure fault; the affected session is already destroyed.
		s.log.Errorf("tool %s infrastructure failure: %v", params.Name, err)
		return newErrorResponse(msg.ID, CodeInternalError, err.Error())
	}

	if params.Name == "create_session" && !res.Failed() {
		s.bindSession(conn, res)
	}

	return newResponse(msg.ID, ToolsCallResult{Content: res.Content, Status: res.Status})
}

// bindSession ties a freshly created browser session to the calling
// connection so the connection's close destroys it. A connection owns at
// most one session; later creations stay caller-managed.
func (s *Server) bindSession(conn *Connection, res *tools.Result) {
	for _, c := range res.Content {
		if c.Type != tools.ContentTypeJSON {
			continue
		}
		var info browsertools.CreateSessionInfo
		if err := json.Unmarshal(c.Data, &info); err != nil || info.SessionID == "" {
			continue
		}
		if conn.BindSession(info.SessionID) {
			sessionID := info.SessionID
			conn.OnClose(func() {
				s.log.Infof("connection %s closed, destroying bound session %s", conn.ID, sessionID)
				s.manager.Destroy(sessionID)
			})
		}
		return
	}
}

func (s *Server) handleAgentRun(ctx context.Context, msg *JSONRPCMessage) *JSONRPCMessage {
	var params AgentRunParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return newErrorResponse(msg.ID, CodeInvalidParams, fmt.Sprintf("invalid agent/run params: %v", err))
	}
	if params.Goal == "" {
		return newErrorResponse(msg.ID, CodeInvalidParams, "goal is required")
	}

	maxSteps := params.MaxSteps
	if maxSteps <= 0 {
		switch params.Task {
		case "form_fill":
			maxSteps = s.formFillSteps
		default:
			maxSteps = s.extractSteps
		}
	}

	goal := params.Goal
	if params.URL != "" {
		goal = fmt.Sprintf("%s\n\nTarget URL: %s", params.Goal, params.URL)
	}

	a := agent.New(s.provider, s.registry, agent.WithMaxSteps(maxSteps))
	res, err := a.Run(ctx, goal)
	if err != nil {
		s.log.Errorf("agent run failed: %v", err)
		return newErrorResponse(msg.ID, CodeInternalError, err.Error())
	}

	return newResponse(msg.ID, AgentRunResult{
		Outcome: string(res.Outcome),
		Content: res.FinalContent,
		Steps:   res.Steps,
	})
}
