package oci8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunQueryWithCallback(t *testing.T) {
	conn, sess := newTestConn(t, selectScript())
	defer conn.Close()

	var seen [][]interface{}
	res, err := conn.RunEach("SELECT id, name FROM people ORDER BY id", func(row []interface{}) error {
		seen = append(seen, row)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, StmtSelect, res.Kind)
	assert.Nil(t, res.Rows)
	assert.Equal(t, 2, res.RowsAffected)
	assert.Equal(t, [][]interface{}{
		{int64(1), "a"},
		{int64(2), "b"},
	}, seen)
	// the cursor does not outlive the call
	assert.Equal(t, 1, sess.freed)
}

func TestRunQueryHandsOverRows(t *testing.T) {
	conn, sess := newTestConn(t, selectScript())
	defer conn.Close()

	res, err := conn.Run("SELECT id, name FROM people ORDER BY id")
	assert.NoError(t, err)
	if !assert.NotNil(t, res.Rows) {
		return
	}
	// the iterator owns the cursor until closed
	assert.Equal(t, 0, sess.freed)

	var n int
	for res.Rows.Next() {
		n++
	}
	assert.NoError(t, res.Rows.Err())
	assert.Equal(t, 2, n)
	assert.False(t, res.Rows.Next())

	assert.NoError(t, res.Rows.Close())
	assert.Equal(t, 1, sess.freed)
}

func TestRunDML(t *testing.T) {
	s := emptyScript()
	s.dml["UPDATE people SET name = :1"] = 3
	conn, sess := newTestConn(t, s)
	defer conn.Close()

	res, err := conn.Run("UPDATE people SET name = :1", "x")
	assert.NoError(t, err)
	assert.Equal(t, StmtUpdate, res.Kind)
	assert.Equal(t, 3, res.RowsAffected)
	assert.Nil(t, res.Rows)
	assert.Equal(t, 1, sess.freed)

	// a callback changes nothing for DML
	called := false
	res, err = conn.RunEach("UPDATE people SET name = :1", func([]interface{}) error {
		called = true
		return nil
	}, "y")
	assert.NoError(t, err)
	assert.Equal(t, 3, res.RowsAffected)
	assert.False(t, called)
}

func TestRunPLSQLOutBinds(t *testing.T) {
	s := emptyScript()
	const block = "BEGIN :o := :i + 1; END;"
	s.plsql[block] = func(byName map[string]*Buffer, byPos []*Buffer) error {
		b := byPos[0]
		b.PutInt64(0, b.Int64(0)+1)
		return nil
	}
	conn, _ := newTestConn(t, s)
	defer conn.Close()

	res, err := conn.Run(block, 41)
	assert.NoError(t, err)
	assert.Equal(t, StmtBegin, res.Kind)
	assert.Equal(t, []interface{}{int64(42)}, res.OutValues)

	// the callback form receives the same values
	var got []interface{}
	res, err = conn.RunEach(block, func(row []interface{}) error {
		got = row
		return nil
	}, 41)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(42)}, got)
	assert.Equal(t, res.OutValues, got)
}

func TestNamedPLSQLOutBinds(t *testing.T) {
	s := emptyScript()
	const block = "BEGIN :o := :i + 1; END;"
	s.plsql[block] = func(byName map[string]*Buffer, byPos []*Buffer) error {
		byName["o"].PutInt64(0, byName["i"].Int64(0)+1)
		return nil
	}
	conn, _ := newTestConn(t, s)
	defer conn.Close()

	cur := conn.NewCursor()
	defer cur.Close()
	assert.NoError(t, cur.Parse(block))
	assert.NoError(t, cur.BindName("i", 41))
	assert.NoError(t, cur.BindNameTyped("o", Int64VarType, nil))
	assert.NoError(t, cur.Execute("", nil, nil))
	assert.Equal(t, []string{"i", "o"}, cur.GetBindNames())

	out, err := cur.OutBindValues()
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(41), int64(42)}, out)
}

func TestSelectOne(t *testing.T) {
	s := selectScript()
	s.queries["SELECT id, name FROM people WHERE id = 99"] = testQuery{
		cols: []ColumnDescription{numberCol("ID", 9, 0), varcharCol("NAME", 30)},
	}
	conn, sess := newTestConn(t, s)
	defer conn.Close()

	row, err := conn.SelectOne("SELECT id, name FROM people ORDER BY id")
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), "a"}, row)

	// an empty result set is not an error
	row, err = conn.SelectOne("SELECT id, name FROM people WHERE id = 99")
	assert.NoError(t, err)
	assert.Nil(t, row)

	assert.Equal(t, 2, sess.freed)
}

func TestServerVersionCached(t *testing.T) {
	conn, _ := newTestConn(t, emptyScript())
	defer conn.Close()

	v, err := conn.ServerVersion()
	assert.NoError(t, err)
	assert.Equal(t, "19.3.0.0.0", v.Original())

	again, err := conn.ServerVersion()
	assert.NoError(t, err)
	assert.Same(t, v, again)
}

func TestConnectionCloseClosesCursors(t *testing.T) {
	conn, sess := newTestConn(t, selectScript())
	cur := conn.NewCursor()
	assert.NoError(t, cur.Execute("SELECT id, name FROM people ORDER BY id", nil, nil))

	assert.NoError(t, conn.Close())
	assert.True(t, sess.closed)
	assert.Equal(t, 1, sess.freed)
	assert.False(t, conn.IsConnected())
	assert.False(t, cur.IsOpen())
}

func TestRunWhenDisconnected(t *testing.T) {
	drv := &testDriver{script: emptyScript()}
	conn, err := NewConnection(drv, "scott", "tiger", "db")
	assert.NoError(t, err)
	_, err = conn.Run("SELECT 1 FROM DUAL")
	assert.Equal(t, StateViolation, Kind(err))
}

func TestBreak(t *testing.T) {
	conn, sess := newTestConn(t, emptyScript())
	defer conn.Close()
	assert.NoError(t, conn.Break())
	assert.True(t, sess.broken)
}

func TestClientID(t *testing.T) {
	conn, _ := newTestConn(t, emptyScript())
	defer conn.Close()
	assert.NotEmpty(t, conn.ClientID())
	assert.Equal(t, "scott", conn.CurrentUser())
}

func TestMakeDSN(t *testing.T) {
	assert.Equal(t,
		"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=db1)(PORT=1521))(CONNECT_DATA=(SID=orcl)))",
		MakeDSN("db1", 1521, "orcl", ""))
	assert.Equal(t,
		"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=db1)(PORT=1521))(CONNECT_DATA=(SERVICE_NAME=svc)))",
		MakeDSN("db1", 1521, "", "svc"))
}

func TestSplitDSN(t *testing.T) {
	user, passw, sid := SplitDSN("scott/tiger@orcl")
	assert.Equal(t, "scott", user)
	assert.Equal(t, "tiger", passw)
	assert.Equal(t, "orcl", sid)

	user, passw, sid = SplitDSN("scott@orcl")
	assert.Equal(t, "scott", user)
	assert.Empty(t, passw)
	assert.Equal(t, "orcl", sid)

	user, passw, sid = SplitDSN("scott/tiger")
	assert.Equal(t, "scott", user)
	assert.Equal(t, "tiger", passw)
	assert.Empty(t, sid)
}

func TestNlsSettings(t *testing.T) {
	assert.Equal(t,
		"ALTER SESSION SET NLS_DATE_FORMAT='YYYY-MM-DD HH24:MI:SS'",
		NlsSettings(""))
}
