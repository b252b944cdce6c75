package mcp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionCloseRunsHooksExactlyOnce(t *testing.T) {
	conn := newConnection("c1")

	var mu sync.Mutex
	fired := 0
	conn.OnClose(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn.Close()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fired)
}

func TestConnectionOnCloseAfterCloseRunsImmediately(t *testing.T) {
	conn := newConnection("c1")
	conn.Close()

	fired := false
	conn.OnClose(func() { fired = true })
	assert.True(t, fired)
}

func TestConnectionBindSessionFirstWins(t *testing.T) {
	conn := newConnection("c1")
	assert.True(t, conn.BindSession("s1"))
	assert.False(t, conn.BindSession("s2"))
	assert.Equal(t, "s1", conn.BoundSession())
}

func TestConnectionSendAfterClose(t *testing.T) {
	conn := newConnection("c1")
	assert.True(t, conn.Send(&JSONRPCMessage{JSONRPC: JSONRPCVersion}))
	conn.Close()
	assert.False(t, conn.Send(&JSONRPCMessage{JSONRPC: JSONRPCVersion}))
}
