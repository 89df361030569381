package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readFrame reads lines up to the next blank line
func readFrame(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("http://localhost:5173")
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	reader := bufio.NewReader(resp.Body)
	hello := readFrame(t, reader)
	require.Len(t, hello, 1)
	assert.True(t, strings.HasPrefix(hello[0], ": connected "))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast("snapshot_reloaded", map[string]int{"artifacts": 3})
	assert.Equal(t, []string{
		"id: 1",
		"event: snapshot_reloaded",
		`data: {"artifacts":3}`,
	}, readFrame(t, reader))

	h.Broadcast("", "plain")
	assert.Equal(t, []string{"id: 2", `data: "plain"`}, readFrame(t, reader))
}

func TestHubShutdownClosesStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("")
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	reader := bufio.NewReader(resp.Body)
	readFrame(t, reader)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	_, err = reader.ReadString('\n')
	assert.Error(t, err)
	assert.Zero(t, h.ClientCount())
}
