package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession drives a `karte mcp` child process.
type stdioSession struct {
	session *sdkmcp.ClientSession
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()

	binaryPath := "./bin/karte"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/karte"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("karte binary not found. Run 'go build -o bin/karte ./cmd/server' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	dir := t.TempDir()
	cmd := exec.CommandContext(ctx, binaryPath, "mcp")
	cmd.Env = append(os.Environ(),
		"KARTE_DB_PATH="+filepath.Join(dir, "karte.db"),
		"KARTE_STORAGE_DIR="+filepath.Join(dir, "attachments"),
		"KARTE_LOG_PATH="+filepath.Join(dir, "karte.log"),
		"KARTE_AUTH_TOKEN=ignored-on-stdio",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})
	return &stdioSession{session: session}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "Tool %s returned error", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(text.Text)
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil
}

func TestStdioFunctional_ProjectSearch(t *testing.T) {
	s := newStdioSession(t)

	var project struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "create_project", map[string]any{
		"title":  "パンフレット制作",
		"client": "B社",
	}), &project))
	require.NotEmpty(t, project.ID)

	s.callTool(t, "create_resource", map[string]any{
		"project_id": project.ID,
		"target":     "https://www.figma.com/file/abc",
	})

	var found struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "search", map[string]any{"query": "パンフレット"}), &found))
	require.NotEmpty(t, found.Hits)
	require.Equal(t, project.ID, found.Hits[0].ID)

	var board struct {
		Cards []struct {
			KindLabel string `json:"kind_label"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "get_resource_board", map[string]any{}), &board))
	require.Len(t, board.Cards, 1)
}

func TestStdioFunctional_Dashboard(t *testing.T) {
	s := newStdioSession(t)

	s.callTool(t, "create_project", map[string]any{"title": "納品", "due": "2000-01-01"})

	var dash struct {
		Overdue []struct {
			Title string `json:"title"`
		} `json:"overdue"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "get_dashboard", map[string]any{}), &dash))
	require.Len(t, dash.Overdue, 1)
	require.Equal(t, "納品", dash.Overdue[0].Title)
}
