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
	"gopkg.in/errgo.v1"
)

// CursorVarType is the variable type for REF CURSOR out binds.
var CursorVarType *VariableType

// cursorVarInitialize pre-opens one child cursor per element, so a
// returned statement handle has a cursor to adopt it.
func cursorVarInitialize(v *Variable, cur *Cursor) error {
	v.connection = cur.connection
	v.cursors = make([]*Cursor, v.allocatedElements)
	if v.buffer.Handles == nil {
		v.buffer.Handles = make([]Stmt, v.allocatedElements)
	}
	for i := uint(0); i < v.allocatedElements; i++ {
		v.cursors[i] = v.connection.NewCursor()
	}
	return nil
}

func cursorVarFinalize(v *Variable) error {
	for _, c := range v.cursors {
		if c != nil {
			if err := c.Close(); err != nil && Kind(err) != StateViolation {
				return err
			}
		}
	}
	v.cursors = nil
	return nil
}

func cursorVarIsNull(v *Variable, pos uint) bool {
	return v.buffer.Handles == nil || v.buffer.Handles[pos] == nil
}

func cursorVarSetValue(v *Variable, pos uint, value interface{}) error {
	x, ok := value.(*Cursor)
	if !ok {
		return errgo.Newf("requires *Cursor, got %T", value)
	}
	v.cursors[pos] = x
	if x.stmt != nil {
		return v.buffer.PutValue(pos, x.stmt)
	}
	return nil
}

// cursorVarGetValue hands the statement handle the server put into the
// slot over to the pre-opened child cursor.
func cursorVarGetValue(v *Variable, pos uint) (interface{}, error) {
	c := v.cursors[pos]
	c.adopt(v.buffer.Handles[pos])
	return c, nil
}

func init() {
	CursorVarType = &VariableType{
		Name:       "Cursor",
		Tag:        TagCursor,
		size:       8,
		initialize: cursorVarInitialize,
		finalize:   cursorVarFinalize,
		isNull:     cursorVarIsNull,
		getValue:   cursorVarGetValue,
		setValue:   cursorVarSetValue,
	}
	registry.Register(CursorVarType)
}
