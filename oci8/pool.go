package oci8

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Pool is a simple connection pool for connections with the same
// credentials. Get either dispenses an idle connection or dials a new
// one; Put returns it. A connection the garbage collector reaps
// without a Put is logged, then dropped.
type Pool struct {
	id    string
	user  string
	passw string
	sid   string
	drv   Driver
	pool  *sync.Pool
}

// NewPool creates a pool for user/passw@sid connection strings.
func NewPool(dsn string, drv Driver) *Pool {
	p := &Pool{id: uuid.NewString(), drv: drv, pool: &sync.Pool{}}
	p.user, p.passw, p.sid = SplitDSN(dsn)
	return p
}

// ID returns the pool's identifier, stamped onto the credentials of
// every connection it dials.
func (p *Pool) ID() string { return p.id }

// Get dispenses a connected connection.
func (p *Pool) Get() (*Connection, error) {
	if c := p.pool.Get(); c != nil {
		return c.(*Connection), nil
	}
	conn, err := NewConnection(p.drv, p.user, p.passw, p.sid)
	if err != nil {
		return nil, err
	}
	conn.pool = p
	if err = conn.Connect(); err != nil {
		return nil, err
	}
	runtime.SetFinalizer(conn, func(c *Connection) {
		if c != nil && c.IsConnected() {
			Log.Warn("connection garbage collected without Put", "pool", p.id)
			c.Close()
		}
	})
	return conn, nil
}

// Put returns a connection to the pool.
func (p *Pool) Put(conn *Connection) {
	if conn == nil || !conn.IsConnected() {
		return
	}
	p.pool.Put(conn)
}
