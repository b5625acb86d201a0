// Package testserver runs the full HTTP stack over an in-memory database
// for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/karte/internal/app"
	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// Tokyo is the zone the test clock runs in.
var Tokyo = time.FixedZone("JST", 9*60*60)

// Now is the fixed test clock: Monday 2024-06-10 09:00 JST.
var Now = time.Date(2024, 6, 10, 9, 0, 0, 0, Tokyo)

type TestServer struct {
	Server *httptest.Server
	Stack  *app.Stack
	DB     *sqlite.DB
	Token  string
}

// New starts a server guarded by token. An empty token disables auth.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	backend, err := attachment.NewFSBackend(t.TempDir())
	require.NoError(t, err)

	stack := app.New(db, backend, app.Options{
		Location:    Tokyo,
		HorizonDays: 7,
		AuthToken:   token,
		Now:         func() time.Time { return Now },
	})
	server := httptest.NewServer(stack.Handler())

	ts := &TestServer{
		Server: server,
		Stack:  stack,
		DB:     db,
		Token:  token,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Request sends an authorized request to path.
func (ts *TestServer) Request(t *testing.T, method, path string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.Server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// ConnectMCP opens an MCP client session against the in-process server
// over in-memory transports.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := ts.Stack.MCPServer("stdio").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Close()
	})
	return session
}
