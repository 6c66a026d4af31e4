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
	"reflect"

	"gopkg.in/errgo.v1"
)

const (
	// MaxStringChars is the widest inline text value; longer strings
	// switch to the long-string variable type.
	MaxStringChars = 4000
	// MaxBinaryBytes is the widest inline raw value.
	MaxBinaryBytes = 4000
)

var (
	// ArrayTooLarge is the error for too large arrays.
	ArrayTooLarge = errgo.New("array size too large")
	// ListIsEmpty is the error for empty lists.
	ListIsEmpty = errgo.New("list is empty")
)

// VariableType is the behavior bundle of one data domain: how to size,
// initialize, read and write a Variable of that domain. Instances are
// package-level and immutable after init.
type VariableType struct {
	Name string
	Tag  TypeTag

	isVariableLength bool
	isCharData       bool
	size             uint
	canBeInArray     bool

	initialize    func(v *Variable, cur *Cursor) error
	finalize      func(v *Variable) error
	preDefine     func(v *Variable, desc *ColumnDescription) error
	isNull        func(v *Variable, pos uint) bool
	getValue      func(v *Variable, pos uint) (interface{}, error)
	setValue      func(v *Variable, pos uint, value interface{}) error
	getBufferSize func(v *Variable) uint
}

func (t *VariableType) String() string {
	return fmt.Sprintf("<%s size=%d>", t.Name, t.size)
}

// IsVariableLength reports whether elements of this type have
// per-value widths.
func (t *VariableType) IsVariableLength() bool { return t.isVariableLength }

// CanBeInArray reports whether the type takes part in array binds.
func (t *VariableType) CanBeInArray() bool { return t.canBeInArray }

// Variable is one bound or defined slot of a statement: typed storage
// plus the bookkeeping that ties the storage to the server handle.
type Variable struct {
	typ         *VariableType
	buffer      *Buffer
	connection  *Connection
	environment *Environment

	boundStmt Stmt
	boundName string
	boundPos  uint

	size              uint
	allocatedElements uint
	actualElements    uint
	isArray           bool

	cursors  []*Cursor
	typeDesc *TypeDescriptor
}

func (v *Variable) String() string {
	return fmt.Sprintf("<%s of %d elem(s)>", v.typ, v.allocatedElements)
}

// Type returns the variable's type.
func (v *Variable) Type() *VariableType { return v.typ }

// NewVariable allocates a new variable of the given type.
func (cur *Cursor) NewVariable(numElements uint, varType *VariableType, size uint) (*Variable, error) {
	if numElements < 1 {
		numElements = 1
	}
	v := &Variable{
		typ:               varType,
		connection:        cur.connection,
		environment:       cur.environment,
		allocatedElements: numElements,
		size:              varType.size,
	}
	if varType.isVariableLength {
		if size < 2 {
			size = 2
		}
		v.size = size
	}
	if err := v.allocateData(); err != nil {
		return nil, err
	}
	if varType.initialize != nil {
		if err := varType.initialize(v, cur); err != nil {
			return nil, errgo.Mask(err, errgo.Any)
		}
	}
	return v, nil
}

// NewVariableByValue allocates a variable sized after an example value.
func (cur *Cursor) NewVariableByValue(value interface{}, numElements uint) (v *Variable, err error) {
	varType, size, numSliceElements, err := VarTypeByValue(value)
	if err != nil {
		return nil, err
	}
	if numSliceElements > 0 {
		if v, err = cur.NewVariable(numSliceElements, varType, size); err != nil {
			return nil, err
		}
		if err = v.makeArray(); err != nil {
			return nil, err
		}
		err = v.setArrayValue(value)
	} else {
		if v, err = cur.NewVariable(numElements, varType, size); err != nil {
			return nil, err
		}
		if value != nil {
			err = v.SetValue(0, value)
		}
	}
	return v, err
}

// allocateData lays out the buffer backing the variable's elements.
func (v *Variable) allocateData() error {
	bufferSize := v.size
	if v.typ.getBufferSize != nil {
		bufferSize = v.typ.getBufferSize(v)
	}
	if bufferSize == 0 {
		bufferSize = v.size
	}
	if bufferSize%2 != 0 {
		bufferSize++
	}
	dataLength := uint64(v.allocatedElements) * uint64(bufferSize)
	if dataLength > 1<<31-1 {
		return ArrayTooLarge
	}
	v.buffer = &Buffer{
		Tag:          v.typ.Tag,
		BufferSize:   bufferSize,
		Allocated:    v.allocatedElements,
		Data:         make([]byte, dataLength),
		Indicator:    make([]int16, v.allocatedElements),
		ActualLength: make([]uint32, v.allocatedElements),
		ReturnCode:   make([]uint16, v.allocatedElements),
	}
	for i := range v.buffer.Indicator {
		v.buffer.Indicator[i] = nullIndicator
	}
	return nil
}

// resize widens the per-element buffer, restriding already stored
// element prefixes into the new layout and refreshing the server bind
// if the variable is already bound.
func (v *Variable) resize(size uint) error {
	if size <= v.size {
		return nil
	}
	debug("%v.resize(%d)", v, size)
	old := v.buffer
	v.size = size
	if err := v.allocateData(); err != nil {
		return err
	}
	for i := uint(0); i < v.allocatedElements; i++ {
		copy(v.buffer.elem(i), old.elem(i))
	}
	copy(v.buffer.Indicator, old.Indicator)
	copy(v.buffer.ActualLength, old.ActualLength)
	copy(v.buffer.ReturnCode, old.ReturnCode)
	v.buffer.IsArray = old.IsArray
	v.buffer.ActualElements = old.ActualElements
	if v.boundStmt != nil {
		return v.internalBind()
	}
	return nil
}

// makeArray turns the variable into an array bind.
func (v *Variable) makeArray() error {
	if !v.typ.canBeInArray {
		return errgo.Newf("type %s cannot be put into an array", v.typ.Name)
	}
	v.isArray = true
	v.buffer.IsArray = true
	return nil
}

// IsArray reports whether the variable holds an array bind.
func (v *Variable) IsArray() bool { return v.isArray }

// ArrayLength returns the current logical element count of an array
// variable.
func (v *Variable) ArrayLength() uint { return v.actualElements }

// AllocatedElements returns the variable's capacity.
func (v *Variable) AllocatedElements() uint { return v.allocatedElements }

// Bind attaches the variable to a statement slot by name or position.
func (v *Variable) Bind(cur *Cursor, name string, pos uint) error {
	if name != "" && pos > 0 {
		return errgo.Newf("either name or pos shall be given, not both")
	}
	v.boundStmt = cur.stmt
	v.boundName = name
	v.boundPos = pos
	return v.internalBind()
}

func (v *Variable) internalBind() (err error) {
	debug("%v.internalBind(name=%q pos=%d)", v, v.boundName, v.boundPos)
	v.buffer.IsArray = v.isArray
	if v.isArray {
		v.buffer.ActualElements = v.actualElements
	}
	if v.boundName != "" {
		err = v.boundStmt.BindByName(v.boundName, v.buffer)
	} else {
		err = v.boundStmt.BindByPos(int(v.boundPos), v.buffer)
	}
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	return nil
}

// IsNull reports whether the element at pos is NULL.
func (v *Variable) IsNull(pos uint) bool {
	if v.typ.isNull != nil {
		return v.typ.isNull(v, pos)
	}
	return v.buffer.IsNull(pos)
}

func (v *Variable) setSingleValue(pos uint, value interface{}) error {
	if pos >= v.allocatedElements {
		return NewError(StateViolation,
			fmt.Sprintf("element %d does not fit into %d allocated", pos, v.allocatedElements))
	}
	if value == nil {
		v.buffer.SetNull(pos)
		return nil
	}
	if v.typ.isVariableLength {
		v.buffer.ReturnCode[pos] = 0
	}
	return v.typ.setValue(v, pos, value)
}

func (v *Variable) setArrayValue(value interface{}) error {
	if values, ok := value.([]interface{}); ok {
		v.actualElements = uint(len(values))
		for i, elt := range values {
			if err := v.setSingleValue(uint(i), elt); err != nil {
				return err
			}
		}
		v.buffer.ActualElements = v.actualElements
		return nil
	}
	return v.setArrayReflectValue(reflect.ValueOf(value))
}

func (v *Variable) setArrayReflectValue(value reflect.Value) error {
	if value.Kind() != reflect.Slice {
		return errgo.Newf("expected slice, got %s", value.Kind())
	}
	n := uint(value.Len())
	v.actualElements = n
	for i := uint(0); i < n; i++ {
		if err := v.setSingleValue(i, value.Index(int(i)).Interface()); err != nil {
			return err
		}
	}
	v.buffer.ActualElements = n
	return nil
}

// SetValue stores value into the element at pos. On array variables
// only pos 0 is accepted and value must be a slice.
func (v *Variable) SetValue(pos uint, value interface{}) error {
	if v.isArray {
		if pos > 0 {
			return NewError(StateViolation, "arrays can only be bound to position 0")
		}
		return v.setArrayValue(value)
	}
	debug("%v.SetValue(%d, %v %T)", v, pos, value, value)
	return v.setSingleValue(pos, value)
}

// GetValue reads the element at pos back as a host value.
func (v *Variable) GetValue(pos uint) (interface{}, error) {
	if v.IsNull(pos) {
		return nil, nil
	}
	return v.typ.getValue(v, pos)
}

// GetArrayValue reads the first numElements elements of an array
// variable.
func (v *Variable) GetArrayValue(numElements uint) ([]interface{}, error) {
	out := make([]interface{}, numElements)
	for i := uint(0); i < numElements; i++ {
		val, err := v.GetValue(i)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// Free releases what the variable holds.
func (v *Variable) Free() error {
	if v.typ.finalize != nil {
		if err := v.typ.finalize(v); err != nil {
			return err
		}
	}
	v.boundStmt = nil
	v.buffer = nil
	return nil
}
