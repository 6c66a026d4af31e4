package oci8

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func selectScript() *testScript {
	s := emptyScript()
	s.queries["SELECT id, name FROM people ORDER BY id"] = testQuery{
		cols: []ColumnDescription{
			numberCol("ID", 9, 0),
			varcharCol("NAME", 30),
		},
		rows: [][]interface{}{
			{1, "a"},
			{2, "b"},
		},
	}
	return s
}

func TestFetchBeforeExecute(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	_, err := cur.FetchOne()
	assert.Equal(t, StateViolation, Kind(err))

	assert.NoError(t, cur.Parse("SELECT id, name FROM people ORDER BY id"))
	_, err = cur.FetchOne()
	assert.Equal(t, StateViolation, Kind(err))
}

func TestFetchOnDMLRejected(t *testing.T) {
	conn, sess := newTestConn(t, emptyScript())
	defer conn.Close()
	sess.script.dml["UPDATE t SET a = 1"] = 3

	cur := conn.NewCursor()
	defer cur.Close()
	assert.NoError(t, cur.Execute("UPDATE t SET a = 1", nil, nil))
	_, err := cur.FetchOne()
	assert.Equal(t, StateViolation, Kind(err))
}

func TestFetchExhaustion(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))
	row, err := cur.FetchOne()
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), "a"}, row)
	row, err = cur.FetchOne()
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), "b"}, row)
	_, err = cur.FetchOne()
	assert.Equal(t, io.EOF, err)
	// exhaustion is sticky
	_, err = cur.FetchOne()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 2, cur.GetRowCount())
}

func TestFetchManyAndAll(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))
	rows, err := cur.FetchMany(1)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = cur.FetchAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]interface{}{{int64(2), "b"}}, rows)
}

func TestFetchOneInto(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))
	var id int64
	var name string
	assert.NoError(t, cur.FetchOneInto(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "a", name)

	err := cur.FetchOneInto(&id)
	assert.Equal(t, ArityMismatch, Kind(err))
}

func TestSmallFetchArraySize(t *testing.T) {
	s := emptyScript()
	rows := make([][]interface{}, 7)
	for i := range rows {
		rows[i] = []interface{}{i + 1}
	}
	s.queries["SELECT n FROM seven"] = testQuery{
		cols: []ColumnDescription{numberCol("N", 9, 0)},
		rows: rows,
	}
	conn, _ := newTestConn(t, s)
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	// three round trips of three, two, then the EOF probe
	cur.SetFetchArraySize(3)
	assert.NoError(t, cur.Execute("SELECT n FROM seven", nil, nil))
	all, err := cur.FetchAll()
	assert.NoError(t, err)
	assert.Len(t, all, 7)
	for i, row := range all {
		assert.Equal(t, int64(i+1), row[0])
	}
}

func TestDescription(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	_, err := cur.Description()
	assert.Equal(t, StateViolation, Kind(err))

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))
	cols, err := cur.Description()
	assert.NoError(t, err)
	if assert.Len(t, cols, 2) {
		assert.Equal(t, "ID", cols[0].Name)
		assert.Equal(t, int(TagInt32), cols[0].Type)
		assert.Equal(t, 9, cols[0].Precision)
		assert.Equal(t, "NAME", cols[1].Name)
		assert.Equal(t, int(TagChar), cols[1].Type)
		assert.Equal(t, 30, cols[1].InternalSize)
	}
}

func TestDefineColumnOverride(t *testing.T) {
	conn, _ := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	// force the numeric column to come back as text
	assert.NoError(t, cur.Parse("SELECT id, name FROM people ORDER BY id"))
	assert.NoError(t, cur.DefineColumn(1, TagNumberAsString, 40))
	assert.NoError(t, cur.Execute("", nil, nil))
	row, err := cur.FetchOne()
	assert.NoError(t, err)
	assert.Equal(t, "1", row[0])
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, sess := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))
	assert.NoError(t, cur.Close())
	assert.NoError(t, cur.Close())
	assert.Equal(t, 1, sess.freed)

	assert.False(t, cur.IsOpen())
	assert.Equal(t, CursorIsClosed, errCause(cur.Parse("SELECT 1 FROM DUAL")))
	_, err := cur.FetchOne()
	assert.Equal(t, StateViolation, Kind(err))
}

func TestCloseAfterFailedExecute(t *testing.T) {
	s := selectScript()
	s.executeErr = NewError(942, "table or view does not exist")
	conn, sess := newTestConn(t, s)
	defer conn.Close()

	cur := conn.NewCursor()
	err := cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil)
	if assert.Error(t, err) {
		assert.Equal(t, 942, Kind(err))
	}
	assert.NoError(t, cur.Close())
	assert.NoError(t, cur.Close())
	assert.Equal(t, 1, sess.freed)
}

func TestReExecuteKeepsHandle(t *testing.T) {
	conn, sess := newTestConn(t, selectScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	const stmt = "SELECT id, name FROM people ORDER BY id"
	assert.NoError(t, cur.Execute(stmt, nil, nil))
	assert.NoError(t, cur.Execute(stmt, nil, nil))
	assert.Equal(t, 1, sess.prepared)

	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id ", nil, nil))
	assert.Equal(t, 2, sess.prepared)
	assert.Equal(t, 1, sess.freed)
}

func TestParseWhenDisconnected(t *testing.T) {
	drv := &testDriver{script: emptyScript()}
	conn, err := NewConnection(drv, "scott", "tiger", "db")
	assert.NoError(t, err)
	cur := conn.NewCursor()
	defer cur.Close()

	err = cur.Parse("SELECT 1 FROM DUAL")
	assert.Equal(t, StateViolation, Kind(err))
	err = cur.Execute("SELECT 1 FROM DUAL", nil, nil)
	assert.Equal(t, StateViolation, Kind(err))
}

func TestBindRequiresPrepared(t *testing.T) {
	conn, _ := newTestConn(t, emptyScript())
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	err := cur.Bind(1, int64(1))
	assert.Equal(t, StateViolation, Kind(err))
}
