package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisops/praxis/internal/application/ticket/dto"
	"github.com/praxisops/praxis/internal/application/ticket/usecases"
	"github.com/praxisops/praxis/internal/interfaces/http/handlers/testutil"
	sharedconfig "github.com/praxisops/praxis/internal/shared/config"
	"github.com/praxisops/praxis/internal/shared/errors"
)

const testSecret = "mcp-secret-token"

type mockListTicketsUC struct {
	result *usecases.ListTicketsResult
	err    error
	called bool
}

func (m *mockListTicketsUC) Execute(_ context.Context, _ usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	m.called = true
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *dto.TicketDTO
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*dto.TicketDTO, error) {
	return m.result, m.err
}

type mockUpdateTicketUC struct {
	result *dto.TicketDTO
	err    error
	called bool
}

func (m *mockUpdateTicketUC) Execute(_ context.Context, _ usecases.UpdateTicketCommand) (*dto.TicketDTO, error) {
	m.called = true
	return m.result, m.err
}

type mockAddReplyUC struct {
	result *dto.ReplyDTO
	err    error
}

func (m *mockAddReplyUC) Execute(_ context.Context, _ usecases.AddReplyCommand) (*dto.ReplyDTO, error) {
	return m.result, m.err
}

func digestOf(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func testConfig() sharedconfig.MCPConfig {
	return sharedconfig.MCPConfig{
		BearerDigest:       digestOf(testSecret),
		AllowedTools:       []string{ToolListTickets, ToolGetTicket, ToolUpdateTicket, ToolAddReply},
		AllowTicketUpdates: true,
	}
}

type fixture struct {
	handler  *MCPHandler
	listUC   *mockListTicketsUC
	getUC    *mockGetTicketUC
	updateUC *mockUpdateTicketUC
	replyUC  *mockAddReplyUC
}

func newFixture(cfg sharedconfig.MCPConfig) *fixture {
	f := &fixture{
		listUC:   &mockListTicketsUC{result: &usecases.ListTicketsResult{Items: []*dto.TicketDTO{}, Limit: 50}},
		getUC:    &mockGetTicketUC{result: &dto.TicketDTO{ID: 42, Subject: "Printer offline"}},
		updateUC: &mockUpdateTicketUC{result: &dto.TicketDTO{ID: 42, Subject: "Printer offline", Status: "in_progress"}},
		replyUC:  &mockAddReplyUC{result: &dto.ReplyDTO{ID: 7, TicketID: 42, Body: "hello"}},
	}
	f.handler = NewMCPHandler(cfg, f.listUC, f.getUC, f.updateUC, f.replyUC)
	return f
}

func call(t *testing.T, f *fixture, token string, body any) (int, rpcResponse) {
	t.Helper()
	c, w := testutil.NewTestContext(http.MethodPost, "/api/mcp/chatgpt/", body)
	if token != "" {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}
	f.handler.Handle(c)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestMCPHandler_Auth(t *testing.T) {
	t.Run("missing bearer rejected", func(t *testing.T) {
		f := newFixture(testConfig())
		code, resp := call(t, f, "", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "listTools"})

		assert.Equal(t, http.StatusUnauthorized, code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, http.StatusUnauthorized, resp.Error.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		f := newFixture(testConfig())
		code, _ := call(t, f, "not-the-secret", map[string]any{"jsonrpc": "2.0", "id": 1, "method": "listTools"})
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("empty configured digest rejects everything", func(t *testing.T) {
		cfg := testConfig()
		cfg.BearerDigest = ""
		f := newFixture(cfg)
		code, _ := call(t, f, testSecret, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "listTools"})
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestMCPHandler_ListTools(t *testing.T) {
	t.Run("returns only configured tools", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowedTools = []string{ToolListTickets, ToolGetTicket}
		f := newFixture(cfg)

		code, resp := call(t, f, testSecret, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "listTools"})

		assert.Equal(t, http.StatusOK, code)
		require.Nil(t, resp.Error)

		raw, err := json.Marshal(resp.Result)
		require.NoError(t, err)
		var result struct {
			Tools []toolDescriptor `json:"tools"`
		}
		require.NoError(t, json.Unmarshal(raw, &result))
		require.Len(t, result.Tools, 2)
		assert.Equal(t, ToolListTickets, result.Tools[0].Name)
		assert.Equal(t, ToolGetTicket, result.Tools[1].Name)
	})

	t.Run("unrecognized configured names are dropped", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowedTools = []string{"deleteEverything", ToolGetTicket}
		f := newFixture(cfg)

		_, resp := call(t, f, testSecret, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "listTools"})

		raw, _ := json.Marshal(resp.Result)
		var result struct {
			Tools []toolDescriptor `json:"tools"`
		}
		require.NoError(t, json.Unmarshal(raw, &result))
		require.Len(t, result.Tools, 1)
		assert.Equal(t, ToolGetTicket, result.Tools[0].Name)
	})
}

func TestMCPHandler_CallTool(t *testing.T) {
	t.Run("getTicket returns the DTO", func(t *testing.T) {
		f := newFixture(testConfig())
		code, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 1, "method": "callTool",
			"params": map[string]any{"name": ToolGetTicket, "arguments": map[string]any{"ticket_id": 42}},
		})

		assert.Equal(t, http.StatusOK, code)
		require.Nil(t, resp.Error)

		raw, _ := json.Marshal(resp.Result)
		var ticket dto.TicketDTO
		require.NoError(t, json.Unmarshal(raw, &ticket))
		assert.Equal(t, uint(42), ticket.ID)
	})

	t.Run("listTickets reaches the use case", func(t *testing.T) {
		f := newFixture(testConfig())
		_, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 2, "method": "callTool",
			"params": map[string]any{"name": ToolListTickets, "arguments": map[string]any{"status": "open", "limit": 10}},
		})

		require.Nil(t, resp.Error)
		assert.True(t, f.listUC.called)
	})

	t.Run("updateTicket blocked when flag is off", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowTicketUpdates = false
		f := newFixture(cfg)

		code, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 3, "method": "callTool",
			"params": map[string]any{"name": ToolUpdateTicket, "arguments": map[string]any{"ticket_id": 42, "status": "closed"}},
		})

		assert.Equal(t, http.StatusOK, code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, http.StatusForbidden, resp.Error.Code)
		assert.False(t, f.updateUC.called, "gated tool must never reach the use case")
	})

	t.Run("tool outside the allow list is unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowedTools = []string{ToolGetTicket}
		f := newFixture(cfg)

		_, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 4, "method": "callTool",
			"params": map[string]any{"name": ToolAddReply, "arguments": map[string]any{"ticket_id": 42, "body": "hi"}},
		})

		require.NotNil(t, resp.Error)
		assert.Equal(t, codeMethodNotFound, resp.Error.Code)
	})

	t.Run("application error mapped onto envelope", func(t *testing.T) {
		f := newFixture(testConfig())
		f.getUC.result = nil
		f.getUC.err = errors.NewNotFoundError("ticket not found")

		_, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 5, "method": "callTool",
			"params": map[string]any{"name": ToolGetTicket, "arguments": map[string]any{"ticket_id": 99}},
		})

		require.NotNil(t, resp.Error)
		assert.Equal(t, http.StatusNotFound, resp.Error.Code)
	})

	t.Run("missing ticket_id rejected", func(t *testing.T) {
		f := newFixture(testConfig())
		_, resp := call(t, f, testSecret, map[string]any{
			"jsonrpc": "2.0", "id": 6, "method": "callTool",
			"params": map[string]any{"name": ToolGetTicket, "arguments": map[string]any{}},
		})

		require.NotNil(t, resp.Error)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Error.Code)
	})
}

func TestMCPHandler_Envelope(t *testing.T) {
	t.Run("unknown method", func(t *testing.T) {
		f := newFixture(testConfig())
		_, resp := call(t, f, testSecret, map[string]any{"jsonrpc": "2.0", "id": 1, "method": "shutdown"})

		require.NotNil(t, resp.Error)
		assert.Equal(t, codeMethodNotFound, resp.Error.Code)
	})

	t.Run("wrong jsonrpc version", func(t *testing.T) {
		f := newFixture(testConfig())
		_, resp := call(t, f, testSecret, map[string]any{"jsonrpc": "1.0", "id": 1, "method": "listTools"})

		require.NotNil(t, resp.Error)
		assert.Equal(t, codeInvalidRequest, resp.Error.Code)
	})
}
