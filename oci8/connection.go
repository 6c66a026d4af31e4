/*
Copyright 2015 the oci8 authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package oci8

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-version"
	"golang.org/x/sync/singleflight"
	"gopkg.in/errgo.v1"
)

// Connection is one authenticated session plus the cursors opened on
// it. All methods going to the server serialize on the session.
type Connection struct {
	session     Session
	environment *Environment
	drv         Driver

	username string
	password string
	dsn      string
	clientID string

	pool          *Pool
	stmtCacheSize int

	srvVersion  *version.Version
	currentUser string

	objTypes map[string]*TypeDescriptor
	objGroup singleflight.Group
	objMtx   sync.RWMutex

	mu      sync.Mutex
	cursors map[*Cursor]struct{}
}

// NewConnection creates a connection for the given credentials without
// dialing yet.
func NewConnection(drv Driver, username, password, dsn string) (*Connection, error) {
	if drv == nil {
		drv = DefaultDriver
	}
	if drv == nil {
		return nil, errgo.New("no transport driver registered")
	}
	return &Connection{
		drv:      drv,
		username: username,
		password: password,
		dsn:      dsn,
		cursors:  make(map[*Cursor]struct{}),
	}, nil
}

// Connect opens the session.
func (conn *Connection) Connect() error {
	if conn.session != nil {
		return nil
	}
	creds := Credentials{
		Username: conn.username,
		Password: conn.password,
		DSN:      conn.dsn,
	}
	if conn.pool != nil {
		creds.PoolID = conn.pool.ID()
	}
	sess, err := conn.drv.Open(creds)
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	env, err := NewEnvironment(sess.Charset())
	if err != nil {
		sess.Close()
		return err
	}
	conn.session = sess
	conn.environment = env
	conn.clientID = uuid.NewString()
	conn.currentUser = sess.Username()
	Log.Debug("connected", "user", conn.currentUser, "dsn", conn.dsn, "clientID", conn.clientID)
	return nil
}

// IsConnected reports whether the session is open.
func (conn *Connection) IsConnected() bool { return conn.session != nil }

func (conn *Connection) String() string {
	if conn.session == nil {
		return fmt.Sprintf("<disconnected %s@%s>", conn.username, conn.dsn)
	}
	return fmt.Sprintf("<%s@%s>", conn.username, conn.dsn)
}

// CurrentUser returns the session's effective user.
func (conn *Connection) CurrentUser() string { return conn.currentUser }

// ClientID returns the identifier assigned to this session.
func (conn *Connection) ClientID() string { return conn.clientID }

// SetStatementCacheSize requests a server-side statement cache of n
// entries on the next connect.
func (conn *Connection) SetStatementCacheSize(n int) { conn.stmtCacheSize = n }

// Environment returns the session's character set environment.
func (conn *Connection) Environment() *Environment { return conn.environment }

// ServerVersion returns the server's version, parsed once and cached.
func (conn *Connection) ServerVersion() (*version.Version, error) {
	if conn.srvVersion != nil {
		return conn.srvVersion, nil
	}
	if conn.session == nil {
		return nil, NewError(StateViolation, "not connected")
	}
	v, err := version.NewVersion(conn.session.ServerVersion())
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	conn.srvVersion = v
	return v, nil
}

// NewCursor opens a cursor on the connection.
func (conn *Connection) NewCursor() *Cursor {
	cur := newCursor(conn)
	conn.mu.Lock()
	conn.cursors[cur] = struct{}{}
	conn.mu.Unlock()
	return cur
}

func (conn *Connection) forget(cur *Cursor) {
	conn.mu.Lock()
	delete(conn.cursors, cur)
	conn.mu.Unlock()
}

// Break aborts the call in progress on the session.
func (conn *Connection) Break() error {
	if conn.session == nil {
		return nil
	}
	return errgo.Mask(conn.session.Break(), errgo.Any)
}

// Close closes every open cursor, then the session, reporting all
// failures together.
func (conn *Connection) Close() error {
	var errs *multierror.Error
	conn.mu.Lock()
	open := make([]*Cursor, 0, len(conn.cursors))
	for cur := range conn.cursors {
		open = append(open, cur)
	}
	conn.mu.Unlock()
	for _, cur := range open {
		if err := cur.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if conn.session != nil {
		if err := conn.session.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		conn.session = nil
	}
	return errs.ErrorOrNil()
}

// ObjectType resolves a server-side named type, asking the server at
// most once per name even under concurrent lookups.
func (conn *Connection) ObjectType(name string) (*TypeDescriptor, error) {
	conn.objMtx.RLock()
	desc := conn.objTypes[name]
	conn.objMtx.RUnlock()
	if desc != nil {
		return desc, nil
	}
	if conn.session == nil {
		return nil, NewError(StateViolation, "not connected")
	}
	got, err, _ := conn.objGroup.Do(name, func() (interface{}, error) {
		d, err := conn.session.LookupNamedType(name)
		if err != nil {
			return nil, errgo.Mask(err, errgo.Any)
		}
		conn.objMtx.Lock()
		if conn.objTypes == nil {
			conn.objTypes = make(map[string]*TypeDescriptor)
		}
		conn.objTypes[name] = d
		conn.objMtx.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return got.(*TypeDescriptor), nil
}

// Run executes a statement with positional arguments and interprets
// the outcome by statement kind; the result set of a query comes back
// as Result.Rows, owned by the caller.
func (conn *Connection) Run(statement string, params ...interface{}) (*Result, error) {
	return conn.run(statement, nil, params)
}

// RunEach executes a statement, feeding every result row (or, for a
// PL/SQL block, the out-bind values) to each.
func (conn *Connection) RunEach(statement string, each RowCallback, params ...interface{}) (*Result, error) {
	return conn.run(statement, each, params)
}

func (conn *Connection) run(statement string, each RowCallback, params []interface{}) (res *Result, err error) {
	if conn.session == nil {
		return nil, NewError(StateViolation, "not connected")
	}
	cur := conn.NewCursor()
	defer func() {
		// the Rows iterator keeps its cursor alive past this call
		if res == nil || res.Rows == nil {
			if closeErr := cur.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}()
	if err = cur.Execute(statement, params, nil); err != nil {
		return nil, err
	}
	return dispatch(cur, each)
}

// SelectOne executes a query and returns its first row, or nil when
// the result set is empty.
func (conn *Connection) SelectOne(statement string, params ...interface{}) ([]interface{}, error) {
	if conn.session == nil {
		return nil, NewError(StateViolation, "not connected")
	}
	cur := conn.NewCursor()
	defer cur.Close()
	if err := cur.Execute(statement, params, nil); err != nil {
		return nil, err
	}
	row, err := cur.FetchOne()
	if err == io.EOF || errgo.Cause(err) == io.EOF {
		return nil, nil
	}
	return row, err
}

// MakeDSN builds a descriptor out of the host, port and either SID or
// service name.
func MakeDSN(host string, port int, sid, serviceName string) string {
	var format, conn string
	if sid != "" {
		conn = sid
		format = "(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))" +
			"(CONNECT_DATA=(SID=%s)))"
	} else {
		conn = serviceName
		format = "(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))" +
			"(CONNECT_DATA=(SERVICE_NAME=%s)))"
	}
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, host, port, conn)
}

// SplitDSN splits user/passwd@sid.
func SplitDSN(dsn string) (username, password, sid string) {
	if i := strings.LastIndex(dsn, "@"); i >= 0 {
		sid = dsn[i+1:]
		dsn = dsn[:i]
	}
	if i := strings.IndexByte(dsn, '/'); i >= 0 {
		username, password = dsn[:i], dsn[i+1:]
	} else {
		username = dsn
	}
	return
}

// NlsSettings returns the statement that pins the session's date
// format, to be run at session setup.
func NlsSettings(format string) string {
	if format == "" {
		format = "YYYY-MM-DD HH24:MI:SS"
	}
	return "ALTER SESSION SET NLS_DATE_FORMAT='" + format + "'"
}
