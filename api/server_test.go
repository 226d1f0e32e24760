package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/rpupo63/personal-site-backend/config"
	"github.com/rpupo63/personal-site-backend/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerShutdownReportsClosed(t *testing.T) {
	c := config.FromMap(map[string]string{
		"PORT":          "0",
		"TOKEN_SECRET":  "test-secret",
		"RESOURCES_DIR": t.TempDir(),
		"PUBLIC_DIR":    t.TempDir(),
	})
	server, err := NewServer(dbtest.New(t), c)
	require.NoError(t, err)

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	server.ShutdownGracefully(time.Second)

	select {
	case err := <-errChannel:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not report shutdown")
	}
}
