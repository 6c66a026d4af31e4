package oci8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefCursorOutBind(t *testing.T) {
	s := emptyScript()
	const block = "BEGIN OPEN :c FOR SELECT id FROM people; END;"
	conn, sess := newTestConn(t, s)
	defer conn.Close()

	// the block hands back a statement handle with pending rows
	s.plsql[block] = func(byName map[string]*Buffer, byPos []*Buffer) error {
		ref := &testStmt{
			sess:   sess,
			text:   "SELECT id FROM people",
			byName: make(map[string]*Buffer),
			cols:   []ColumnDescription{numberCol("ID", 9, 0)},
			rows:   [][]interface{}{{7}, {8}},
		}
		b := byName["c"]
		return b.PutValue(0, Stmt(ref))
	}

	cur := conn.NewCursor()
	defer cur.Close()
	assert.NoError(t, cur.Parse(block))
	assert.NoError(t, cur.BindNameTyped("c", CursorVarType, nil))
	assert.NoError(t, cur.Execute("", nil, nil))

	out, err := cur.OutBindValues()
	assert.NoError(t, err)
	if !assert.Len(t, out, 1) {
		return
	}
	rc, ok := out[0].(*Cursor)
	if !assert.True(t, ok, "got %T", out[0]) {
		return
	}
	assert.True(t, rc.Kind().IsQuery())

	rows, err := rc.FetchAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]interface{}{{int64(7)}, {int64(8)}}, rows)
	assert.NoError(t, rc.Close())
}

func TestRefCursorIsNullWithoutHandle(t *testing.T) {
	conn, _ := newTestConn(t, emptyScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	v, err := cur.NewVariable(1, CursorVarType, 0)
	assert.NoError(t, err)
	assert.True(t, v.IsNull(0))
	got, err := v.GetValue(0)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
