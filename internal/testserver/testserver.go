// Package testserver runs the full HTTP stack over an in-memory database for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/rpggio/hourbank/internal/mcp"
	"github.com/rpggio/hourbank/internal/sqlite"
	"github.com/rpggio/hourbank/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Access     *access.Service
	AdminToken string
	Today      time.Time
}

// RPCResponse is a decoded JSON-RPC response with the result left raw.
type RPCResponse struct {
	Result json.RawMessage  `json:"result"`
	Error  *transport.Error `json:"error"`
}

// New starts a server whose clock reads today (YYYY-MM-DD).
func New(t *testing.T, today string) *TestServer {
	t.Helper()

	day, err := billing.ParseDate(today)
	require.NoError(t, err)
	clock := func() time.Time { return day }

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	policy := billing.DefaultPolicy()
	contractRepo := sqlite.NewContractRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	accessSvc := access.NewService(sqlite.NewAPIKeyRepository(db), nil)
	engine := renewal.NewEngine(contractRepo, activityRepo, nil)

	handler := mcp.NewHandler(mcp.Services{
		Clients:     client.NewService(sqlite.NewClientRepository(db), nil),
		Contracts:   contract.NewService(contractRepo, activityRepo, policy, nil),
		Consumption: consumption.NewService(sqlite.NewConsumptionRepository(db), contractRepo, policy, nil),
		Tickets:     ticket.NewService(sqlite.NewTicketRepository(db), activityRepo, policy, nil),
		Products:    product.NewService(sqlite.NewProductRepository(db), nil),
		Activity:    activity.NewService(activityRepo, nil),
		Renewal:     engine,
		Policy:      policy,
		Today:       clock,
	})
	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       handler,
		Resolver:      accessSvc,
		AuthEnabled:   true,
		TransportMode: "http",
	})

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Handler: handler,
		Auth:    transport.AuthMiddleware(accessSvc),
		Renewal: engine,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{},
		),
		Today: clock,
	}))

	ts := &TestServer{Server: server, DB: db, Access: accessSvc, Today: day}
	ts.AdminToken = ts.IssueKey(t, access.IssueRequest{UserID: "ops", Role: access.RoleAdmin})

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// IssueKey stores an API key and returns its clear token.
func (ts *TestServer) IssueKey(t *testing.T, req access.IssueRequest) string {
	t.Helper()
	token, _, err := ts.Access.IssueKey(context.Background(), req)
	require.NoError(t, err)
	return token
}

// Call invokes method over JSON-RPC as the holder of token.
func (ts *TestServer) Call(t *testing.T, token, method string, params any) RPCResponse {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// MustCall is Call that fails the test on an RPC error and decodes the
// result into out.
func (ts *TestServer) MustCall(t *testing.T, token, method string, params, out any) {
	t.Helper()
	resp := ts.Call(t, token, method, params)
	require.Nil(t, resp.Error, "%s failed: %+v", method, resp.Error)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Result, out))
	}
}

// ErrorCode returns the domain error code of a failed call.
func (r RPCResponse) ErrorCode() string {
	if r.Error == nil {
		return ""
	}
	data, ok := r.Error.Data.(map[string]any)
	if !ok {
		return ""
	}
	code, _ := data["code"].(string)
	return code
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

// ConnectMCP opens an MCP client session over streamable HTTP as the holder
// of token.
func (ts *TestServer) ConnectMCP(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
