package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/karte/internal/transport"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
)

// getSessionID extracts session ID from context.
func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// authMiddleware checks the bearer token carried by HTTP requests. Requests
// without transport headers (stdio) pass through.
func authMiddleware(token string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if token == "" || method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}
			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return next(ctx, method, req)
			}
			if !transport.CheckToken(token, transport.BearerToken(extra.Header.Get("Authorization"))) {
				return nil, fmt.Errorf("%w: invalid bearer token", transport.ErrUnauthorized)
			}
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware extracts the session ID from the Mcp-Session-Id header
// (HTTP) or the transport session (stdio).
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}
			if sessionID == "" {
				sessionID = safeSessionID(req)
			}
			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}
			return next(ctx, method, req)
		}
	}
}
