// Package testserver assembles the full HTTP stack over an in-memory
// database for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/mcp"
	"github.com/rpggio/playmat/internal/raster"
	"github.com/rpggio/playmat/internal/sqlite"
	"github.com/rpggio/playmat/internal/transport"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Store    *sqlite.ProjectStore
	Activity *activity.Service
	Session  *editor.Session
	Canvas   *raster.Canvas
}

// New starts a server whose session saves synchronously, so the store
// reflects every settled change as soon as the request returns.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := sqlite.NewProjectStore(db)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	session, err := editor.Open(context.Background(), editor.Options{
		Store:        store,
		Journal:      activitySvc,
		SaveDebounce: -1,
	})
	require.NoError(t, err)

	canvas := raster.NewCanvas(session, raster.NewLoader(nil), raster.WithBackgroundReporter(func(w, h float64) {
		_, _ = session.ReportBackgroundImage(w, h)
	}))
	handler := mcp.NewHandler(session, canvas, activitySvc, t.TempDir())
	mcpServer := mcp.NewServer(mcp.Config{Handler: handler})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Handler: handler,
		Preview: canvas,
		MCP:     mcpHandler,
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Store:    store,
		Activity: activitySvc,
		Session:  session,
		Canvas:   canvas,
	}

	t.Cleanup(func() {
		server.Close()
		_ = session.Close(context.Background())
		_ = db.Close()
	})

	return ts
}
