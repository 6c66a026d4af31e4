package oci8

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/errgo.v1"
)

// The tests below run against an in-memory transport scripted per
// statement text: queries carry canned result sets, DML carries an
// affected-row count, PL/SQL blocks carry a function working directly
// on the bind buffers.

type testQuery struct {
	cols []ColumnDescription
	rows [][]interface{}
}

type testScript struct {
	queries map[string]testQuery
	dml     map[string]int
	plsql   map[string]func(byName map[string]*Buffer, byPos []*Buffer) error
	types   map[string]*TypeDescriptor

	prepareErr error
	executeErr error
}

type testDriver struct {
	script  *testScript
	charset string

	opened    []*testSession
	lastCreds Credentials
}

func (d *testDriver) Open(creds Credentials) (Session, error) {
	d.lastCreds = creds
	charset := d.charset
	if charset == "" {
		charset = "AL32UTF8"
	}
	s := &testSession{script: d.script, user: creds.Username, charset: charset}
	d.opened = append(d.opened, s)
	return s, nil
}

type testSession struct {
	script  *testScript
	user    string
	charset string

	prepared    int
	freed       int
	typeLookups int
	broken      bool
	closed      bool
	lastStmt    *testStmt
}

func (s *testSession) Prepare(text string) (Stmt, error) {
	if s.script.prepareErr != nil {
		return nil, s.script.prepareErr
	}
	s.prepared++
	s.lastStmt = &testStmt{sess: s, text: text, byName: make(map[string]*Buffer)}
	return s.lastStmt, nil
}

func (s *testSession) LookupNamedType(name string) (*TypeDescriptor, error) {
	s.typeLookups++
	if d := s.script.types[name]; d != nil {
		return d, nil
	}
	return nil, NewError(4043, "object "+name+" does not exist")
}

func (s *testSession) Username() string      { return s.user }
func (s *testSession) ServerVersion() string { return "19.3.0.0.0" }
func (s *testSession) Charset() string       { return s.charset }
func (s *testSession) Break() error          { s.broken = true; return nil }
func (s *testSession) Close() error          { s.closed = true; return nil }

type testStmt struct {
	sess *testSession
	text string

	byPos  []*Buffer
	byName map[string]*Buffer

	defines []*Buffer
	rows    [][]interface{}
	cols    []ColumnDescription
	served  int

	execs  int
	iters  int
	closed bool
}

func (st *testStmt) BindByPos(pos int, b *Buffer) error {
	for len(st.byPos) < pos {
		st.byPos = append(st.byPos, nil)
	}
	st.byPos[pos-1] = b
	return nil
}

func (st *testStmt) BindByName(name string, b *Buffer) error {
	st.byName[name] = b
	return nil
}

func (st *testStmt) Execute(iters int) (int, error) {
	if st.sess.script.executeErr != nil {
		return 0, st.sess.script.executeErr
	}
	st.execs++
	st.iters = iters
	if q, ok := st.sess.script.queries[st.text]; ok {
		st.cols = q.cols
		st.rows = q.rows
		st.served = 0
		return 0, nil
	}
	if fn, ok := st.sess.script.plsql[st.text]; ok {
		return 0, fn(st.byName, st.byPos)
	}
	if n, ok := st.sess.script.dml[st.text]; ok {
		if iters > 1 {
			return n * iters, nil
		}
		return n, nil
	}
	return 0, nil
}

func (st *testStmt) ColumnCount() (int, error) { return len(st.cols), nil }

func (st *testStmt) Describe(pos int) (ColumnDescription, error) {
	if pos < 1 || pos > len(st.cols) {
		return ColumnDescription{}, errgo.Newf("describe %d of %d columns", pos, len(st.cols))
	}
	return st.cols[pos-1], nil
}

func (st *testStmt) DefineByPos(pos int, b *Buffer) error {
	for len(st.defines) < pos {
		st.defines = append(st.defines, nil)
	}
	st.defines[pos-1] = b
	return nil
}

func (st *testStmt) FetchNext() (int, error) {
	remaining := len(st.rows) - st.served
	if remaining <= 0 {
		return 0, io.EOF
	}
	batch := int(st.defines[0].Allocated)
	if batch > remaining {
		batch = remaining
	}
	for i := 0; i < batch; i++ {
		row := st.rows[st.served+i]
		for col, b := range st.defines {
			if err := putColumnValue(b, uint(i), row[col]); err != nil {
				return 0, err
			}
		}
	}
	st.served += batch
	return batch, nil
}

// putColumnValue converts to text the way a server honoring a textual
// define would, then stores the value.
func putColumnValue(b *Buffer, pos uint, value interface{}) error {
	switch b.Tag {
	case TagChar, TagFixedChar, TagLongString, TagNumberAsString, TagRowid:
		switch value.(type) {
		case string, []byte, nil:
		default:
			value = fmt.Sprint(value)
		}
	}
	return b.PutValue(pos, value)
}

func (st *testStmt) Close() error {
	st.closed = true
	st.sess.freed++
	return nil
}

// newTestConn dials a connected Connection over the scripted transport
// and returns its session for state assertions.
func newTestConn(t *testing.T, script *testScript) (*Connection, *testSession) {
	return newTestConnCharset(t, script, "")
}

func newTestConnCharset(t *testing.T, script *testScript, charset string) (*Connection, *testSession) {
	drv := &testDriver{script: script, charset: charset}
	conn, err := NewConnection(drv, "scott", "tiger", "testdb")
	assert.NoError(t, err)
	assert.NoError(t, conn.Connect())
	return conn, drv.opened[len(drv.opened)-1]
}

func errCause(err error) error { return errgo.Cause(err) }

func varcharCol(name string, size int) ColumnDescription {
	return ColumnDescription{Name: name, Type: TagChar, InternalSize: size, NullOk: true}
}

func numberCol(name string, precision, scale int) ColumnDescription {
	return ColumnDescription{Name: name, Type: TagFloat, Precision: precision, Scale: scale, NullOk: true}
}
