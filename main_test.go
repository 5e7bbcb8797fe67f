package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPort = "127.0.0.1:18081"

func setTestEnv(t *testing.T) {
	t.Setenv("APP_PORT", testPort)
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_DSN", "file:main_test?mode=memory&cache=shared")
	t.Setenv("NOTIFY_TRANSPORT", "log")
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	setTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	healthURL := fmt.Sprintf("http://%s/health", testPort)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setTestEnv(t)
	t.Setenv("NOTIFY_TRANSPORT", "fax")

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_TRANSPORT")
}
