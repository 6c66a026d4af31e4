package oci8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolGetPut(t *testing.T) {
	drv := &testDriver{script: emptyScript()}
	p := NewPool("scott/tiger@testdb", drv)
	assert.NotEmpty(t, p.ID())

	conn, err := p.Get()
	assert.NoError(t, err)
	assert.True(t, conn.IsConnected())
	// dialed connections carry the pool's identity
	assert.Equal(t, p.ID(), drv.lastCreds.PoolID)
	assert.Equal(t, "scott", drv.lastCreds.Username)
	assert.Equal(t, "tiger", drv.lastCreds.Password)

	p.Put(conn)
	again, err := p.Get()
	assert.NoError(t, err)
	assert.Same(t, conn, again)
	assert.Len(t, drv.opened, 1)
}

func TestPoolDropsClosedConnections(t *testing.T) {
	drv := &testDriver{script: emptyScript()}
	p := NewPool("scott/tiger@testdb", drv)

	conn, err := p.Get()
	assert.NoError(t, err)
	assert.NoError(t, conn.Close())
	p.Put(conn)
	p.Put(nil)

	again, err := p.Get()
	assert.NoError(t, err)
	assert.NotSame(t, conn, again)
	assert.True(t, again.IsConnected())
}
