package oci8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct{ x, y int64 }

func (p point) TypeName() string { return "SCOTT.POINT_T" }
func (p point) ObjectAttributes() map[string]interface{} {
	return map[string]interface{}{"X": p.x, "Y": p.y}
}

func pointScript() *testScript {
	s := emptyScript()
	s.types = map[string]*TypeDescriptor{
		"SCOTT.POINT_T": {
			Schema: "SCOTT",
			Name:   "POINT_T",
			Attributes: []TypeAttribute{
				{Name: "X", Type: TagInt64, Size: 8},
				{Name: "Y", Type: TagInt64, Size: 8},
			},
		},
	}
	return s
}

func TestObjectTypeLookupIsCached(t *testing.T) {
	conn, sess := newTestConn(t, pointScript())
	defer conn.Close()

	d1, err := conn.ObjectType("SCOTT.POINT_T")
	assert.NoError(t, err)
	d2, err := conn.ObjectType("SCOTT.POINT_T")
	assert.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, 1, sess.typeLookups)

	_, err = conn.ObjectType("SCOTT.MISSING_T")
	assert.Equal(t, 4043, Kind(err))
}

func TestObjectBinderResolvesDescriptor(t *testing.T) {
	s := pointScript()
	s.dml["INSERT INTO shapes VALUES (:1)"] = 1
	conn, sess := newTestConn(t, s)
	defer conn.Close()
	cur := conn.NewCursor()
	defer cur.Close()

	assert.NoError(t, cur.Parse("INSERT INTO shapes VALUES (:1)"))
	assert.NoError(t, cur.BindTyped(1, ObjectVarType, point{x: 3, y: 4}))
	assert.NoError(t, cur.Execute("", nil, nil))

	// two binds of the same type hit the server once
	assert.NoError(t, cur.BindTyped(1, ObjectVarType, point{x: 5, y: 6}))
	assert.Equal(t, 1, sess.typeLookups)

	out, err := cur.OutBindValues()
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		obj := out[0].(*ObjectValue)
		assert.Equal(t, "POINT_T", obj.Type.Name)
		assert.Equal(t, int64(5), obj.Attributes["X"])
	}
}
