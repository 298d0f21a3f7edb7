// Package mcp is the JSON-RPC 2.0 adapter exposing a configured subset of
// ticket operations to assistant integrations.
package mcp

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/application/ticket/usecases"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	sharedconfig "github.com/praxisops/praxis/internal/shared/config"
	sharederrors "github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// JSON-RPC 2.0 protocol error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Tool names the adapter can expose.
const (
	ToolListTickets  = "listTickets"
	ToolGetTicket    = "getTicket"
	ToolUpdateTicket = "updateTicket"
	ToolAddReply     = "addReply"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var toolCatalog = map[string]toolDescriptor{
	ToolListTickets:  {Name: ToolListTickets, Description: "List tickets with optional status, priority and search filters"},
	ToolGetTicket:    {Name: ToolGetTicket, Description: "Fetch one ticket by ID"},
	ToolUpdateTicket: {Name: ToolUpdateTicket, Description: "Apply a sparse update to a ticket"},
	ToolAddReply:     {Name: ToolAddReply, Description: "Append a public reply to a ticket"},
}

type MCPHandler struct {
	cfg           sharedconfig.MCPConfig
	listTicketsUC usecases.ListTicketsExecutor
	getTicketUC   usecases.GetTicketExecutor
	updateUC      usecases.UpdateTicketExecutor
	addReplyUC    usecases.AddReplyExecutor
	logger        logger.Interface
}

func NewMCPHandler(
	cfg sharedconfig.MCPConfig,
	listTicketsUC usecases.ListTicketsExecutor,
	getTicketUC usecases.GetTicketExecutor,
	updateUC usecases.UpdateTicketExecutor,
	addReplyUC usecases.AddReplyExecutor,
) *MCPHandler {
	return &MCPHandler{
		cfg:           cfg,
		listTicketsUC: listTicketsUC,
		getTicketUC:   getTicketUC,
		updateUC:      updateUC,
		addReplyUC:    addReplyUC,
		logger:        logger.NewLogger(),
	}
}

// Handle serves POST /api/mcp/chatgpt/
func (h *MCPHandler) Handle(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: http.StatusUnauthorized, Message: "invalid or missing bearer token"},
		})
		return
	}

	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "invalid JSON-RPC envelope"},
		})
		return
	}
	if req.JSONRPC != "2.0" {
		c.JSON(http.StatusOK, errorResponse(req.ID, codeInvalidRequest, "jsonrpc must be \"2.0\""))
		return
	}

	switch req.Method {
	case "listTools":
		c.JSON(http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: h.listTools()})
	case "callTool":
		c.JSON(http.StatusOK, h.callTool(c, req))
	default:
		c.JSON(http.StatusOK, errorResponse(req.ID, codeMethodNotFound, "unknown method: "+req.Method))
	}
}

// authorized compares the SHA-256 digest of the presented bearer token
// against the configured digest. The raw secret is never stored.
func (h *MCPHandler) authorized(c *gin.Context) bool {
	if h.cfg.BearerDigest == "" {
		return false
	}

	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return false
	}

	sum := sha256.Sum256([]byte(token))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(h.cfg.BearerDigest))) == 1
}

func (h *MCPHandler) listTools() map[string]any {
	tools := make([]toolDescriptor, 0, len(h.cfg.AllowedTools))
	for _, name := range h.cfg.AllowedTools {
		if desc, ok := toolCatalog[name]; ok {
			tools = append(tools, desc)
		}
	}
	return map[string]any{"tools": tools}
}

func (h *MCPHandler) callTool(c *gin.Context, req rpcRequest) rpcResponse {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return errorResponse(req.ID, codeInvalidParams, "params must carry a tool name")
	}

	if !h.toolAllowed(params.Name) {
		return errorResponse(req.ID, codeMethodNotFound, "unknown tool: "+params.Name)
	}
	if params.Name == ToolUpdateTicket && !h.cfg.AllowTicketUpdates {
		return errorResponse(req.ID, http.StatusForbidden, "ticket updates are disabled for this integration")
	}

	result, err := h.dispatch(c, params)
	if err != nil {
		return toolError(req.ID, err)
	}
	return rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (h *MCPHandler) toolAllowed(name string) bool {
	for _, allowed := range h.cfg.AllowedTools {
		if allowed == name {
			return true
		}
	}
	return false
}

func (h *MCPHandler) dispatch(c *gin.Context, params callToolParams) (any, error) {
	ctx := c.Request.Context()

	switch params.Name {
	case ToolListTickets:
		var args struct {
			Status   string `json:"status"`
			Priority string `json:"priority"`
			Search   string `json:"search"`
			Limit    int    `json:"limit"`
			Offset   int    `json:"offset"`
		}
		if len(params.Arguments) > 0 {
			if err := json.Unmarshal(params.Arguments, &args); err != nil {
				return nil, sharederrors.NewValidationError("invalid tool arguments")
			}
		}
		query := usecases.ListTicketsQuery{
			Search: args.Search,
			Limit:  args.Limit,
			Offset: args.Offset,
		}
		if args.Status != "" {
			query.Status = &args.Status
		}
		if args.Priority != "" {
			query.Priority = &args.Priority
		}
		return h.listTicketsUC.Execute(ctx, query)

	case ToolGetTicket:
		var args struct {
			TicketID uint `json:"ticket_id"`
		}
		if err := json.Unmarshal(params.Arguments, &args); err != nil || args.TicketID == 0 {
			return nil, sharederrors.NewValidationError("ticket_id is required")
		}
		return h.getTicketUC.Execute(ctx, usecases.GetTicketQuery{TicketID: args.TicketID})

	case ToolUpdateTicket:
		var args struct {
			TicketID       uint    `json:"ticket_id"`
			Subject        *string `json:"subject"`
			Description    *string `json:"description"`
			Status         *string `json:"status"`
			Priority       *string `json:"priority"`
			AssignedUserID *uint   `json:"assigned_user_id"`
		}
		if err := json.Unmarshal(params.Arguments, &args); err != nil || args.TicketID == 0 {
			return nil, sharederrors.NewValidationError("ticket_id is required")
		}
		return h.updateUC.Execute(ctx, usecases.UpdateTicketCommand{
			TicketID:       args.TicketID,
			Subject:        args.Subject,
			Description:    args.Description,
			Status:         args.Status,
			Priority:       args.Priority,
			AssignedUserID: args.AssignedUserID,
			Actor:          &events.Actor{APIKey: "mcp"},
		})

	case ToolAddReply:
		var args struct {
			TicketID uint   `json:"ticket_id"`
			Body     string `json:"body"`
		}
		if err := json.Unmarshal(params.Arguments, &args); err != nil || args.TicketID == 0 {
			return nil, sharederrors.NewValidationError("ticket_id is required")
		}
		return h.addReplyUC.Execute(ctx, usecases.AddReplyCommand{
			TicketID: args.TicketID,
			Body:     args.Body,
			Actor:    &events.Actor{APIKey: "mcp"},
		})
	}

	return nil, sharederrors.NewValidationError("unknown tool: " + params.Name)
}

func errorResponse(id json.RawMessage, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// toolError maps application errors onto the envelope, reusing the HTTP
// status as the JSON-RPC error code for application-level failures.
func toolError(id json.RawMessage, err error) rpcResponse {
	if appErr := sharederrors.GetAppError(err); appErr != nil {
		return errorResponse(id, appErr.Code, appErr.Message)
	}
	return errorResponse(id, codeInternalError, "internal error")
}
