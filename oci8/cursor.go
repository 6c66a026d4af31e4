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
	"hash/fnv"
	"io"
	"sort"
	"strings"

	"gopkg.in/errgo.v1"
)

// StatementKind classifies a statement by its leading keyword; the
// kind decides how execution results are interpreted.
type StatementKind uint8

const (
	StmtUnknown StatementKind = iota
	StmtSelect
	StmtInsert
	StmtUpdate
	StmtDelete
	StmtBegin
	StmtDeclare
	StmtOther
)

func (k StatementKind) String() string {
	switch k {
	case StmtSelect:
		return "SELECT"
	case StmtInsert:
		return "INSERT"
	case StmtUpdate:
		return "UPDATE"
	case StmtDelete:
		return "DELETE"
	case StmtBegin:
		return "BEGIN"
	case StmtDeclare:
		return "DECLARE"
	case StmtOther:
		return "OTHER"
	}
	return "UNKNOWN"
}

// IsQuery reports whether statements of this kind produce a result set.
func (k StatementKind) IsQuery() bool { return k == StmtSelect }

// IsDML reports whether statements of this kind report affected rows.
func (k StatementKind) IsDML() bool {
	return k == StmtInsert || k == StmtUpdate || k == StmtDelete
}

// IsPLSQL reports whether statements of this kind are anonymous blocks.
func (k StatementKind) IsPLSQL() bool {
	return k == StmtBegin || k == StmtDeclare
}

// ClassifyStatement determines the kind of a statement from its
// leading keyword, skipping whitespace and comments.
func ClassifyStatement(text string) StatementKind {
	switch strings.ToUpper(leadingKeyword(text)) {
	case "SELECT", "WITH":
		return StmtSelect
	case "INSERT":
		return StmtInsert
	case "UPDATE":
		return StmtUpdate
	case "DELETE":
		return StmtDelete
	case "BEGIN":
		return StmtBegin
	case "DECLARE":
		return StmtDeclare
	case "":
		return StmtUnknown
	}
	return StmtOther
}

// leadingKeyword returns the first word of text after whitespace,
// line comments and block comments.
func leadingKeyword(text string) string {
	for {
		text = strings.TrimLeft(text, " \t\r\n")
		if strings.HasPrefix(text, "--") {
			i := strings.IndexByte(text, '\n')
			if i < 0 {
				return ""
			}
			text = text[i+1:]
			continue
		}
		if strings.HasPrefix(text, "/*") {
			i := strings.Index(text, "*/")
			if i < 0 {
				return ""
			}
			text = text[i+2:]
			continue
		}
		break
	}
	end := len(text)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			end = i
			break
		}
	}
	return text[:end]
}

// DefaultArraySize is the default number of rows fetched per round
// trip.
const DefaultArraySize = 50

var (
	// CursorIsClosed is the error for operations on closed cursors.
	CursorIsClosed = NewError(StateViolation, "cursor is closed")
	// QueriesNotSupported is the error for array-executing a query.
	QueriesNotSupported = NewError(StateViolation, "queries not supported: results undefined")
)

// Cursor is one prepared statement plus its bind and fetch state. The
// lifecycle is prepare, bind, execute, fetch; each step checks that
// the preceding ones happened.
type Cursor struct {
	stmt        Stmt
	connection  *Connection
	environment *Environment

	statement     string
	statementTag  []byte
	statementKind StatementKind

	bindVarsArr []*Variable
	bindVarsMap map[string]*Variable
	bindNames   []string // named binds in first-bind order

	fetchVariables []*Variable
	columns        []VariableDescription
	predefined     map[uint]*Variable

	arraySize     uint
	maxArraySize  uint
	bindArraySize int // agreed array-bind cardinality, -1 while scalar

	rowCount   int
	actualRows int
	rowNum     int

	executed bool
	isOpen   bool
}

func newCursor(conn *Connection) *Cursor {
	return &Cursor{
		connection:    conn,
		environment:   conn.environment,
		arraySize:     DefaultArraySize,
		maxArraySize:  DefaultArraySize,
		bindArraySize: -1,
		actualRows:    -1,
		isOpen:        true,
	}
}

func (cur *Cursor) String() string {
	return fmt.Sprintf("<cursor on %v>", cur.connection)
}

// Statement returns the currently prepared statement text.
func (cur *Cursor) Statement() string { return cur.statement }

// Kind returns the kind of the currently prepared statement.
func (cur *Cursor) Kind() StatementKind { return cur.statementKind }

// IsOpen reports whether the cursor is usable.
func (cur *Cursor) IsOpen() bool { return cur.isOpen }

// Parse prepares a statement without executing it.
func (cur *Cursor) Parse(statement string) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	return cur.internalPrepare(statement)
}

func (cur *Cursor) internalPrepare(statement string) error {
	if statement == "" && cur.stmt == nil {
		return NewError(StateViolation, "no statement to prepare")
	}
	// re-executing the same text keeps the handle and the binds
	if statement == "" || (statement == cur.statement && cur.stmt != nil) {
		return nil
	}
	if cur.connection == nil || cur.connection.session == nil {
		return NewError(StateViolation, "not connected")
	}
	debug("%v.internalPrepare(%q)", cur, statement)
	if err := cur.freeHandle(); err != nil {
		return err
	}
	stmt, err := cur.connection.session.Prepare(statement)
	if err != nil {
		setErrAt(errgo.Cause(err), "Prepare")
		return errgo.Mask(err, errgo.Any)
	}
	cur.stmt = stmt
	cur.statement = statement
	cur.statementTag = hashTag(statement)
	cur.statementKind = ClassifyStatement(statement)
	debug("prepared %s tag=%x", cur.statementKind, cur.statementTag)
	cur.bindVarsArr = nil
	cur.bindVarsMap = nil
	cur.bindNames = nil
	cur.fetchVariables = nil
	cur.columns = nil
	cur.predefined = nil
	cur.bindArraySize = -1
	cur.executed = false
	return nil
}

// Bind binds a scalar value at a 1-based position, resolving the
// variable type from the value.
func (cur *Cursor) Bind(pos uint, value interface{}) error {
	return cur.bindScalar("", pos, nil, value)
}

// BindName binds a scalar value to a named placeholder.
func (cur *Cursor) BindName(name string, value interface{}) error {
	return cur.bindScalar(name, 0, nil, value)
}

// BindTyped binds a scalar value at a 1-based position with an
// explicit variable type; the explicit type wins over the value's.
func (cur *Cursor) BindTyped(pos uint, vt *VariableType, value interface{}) error {
	return cur.bindScalar("", pos, vt, value)
}

// BindNameTyped binds a scalar value to a named placeholder with an
// explicit variable type.
func (cur *Cursor) BindNameTyped(name string, vt *VariableType, value interface{}) error {
	return cur.bindScalar(name, 0, vt, value)
}

func (cur *Cursor) bindScalar(name string, pos uint, vt *VariableType, value interface{}) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if cur.stmt == nil {
		return NewError(StateViolation, "bind requires a prepared statement")
	}
	if cur.bindArraySize >= 0 {
		return NewError(StateViolation, "scalar bind on an array-bound statement")
	}
	var size uint
	if vt == nil {
		var err error
		var numElements uint
		if vt, size, numElements, err = VarTypeByValue(value); err != nil {
			return err
		}
		if numElements > 0 {
			return NewError(StateViolation, "slice value requires BindArray")
		}
	} else {
		size = vt.size
	}
	v, err := cur.NewVariable(1, vt, size)
	if err != nil {
		return err
	}
	if value != nil {
		if err = v.SetValue(0, value); err != nil {
			return err
		}
	}
	return cur.storeBindVar(name, pos, v)
}

func (cur *Cursor) storeBindVar(name string, pos uint, v *Variable) error {
	if name != "" {
		if cur.bindVarsMap == nil {
			cur.bindVarsMap = make(map[string]*Variable)
		}
		if _, seen := cur.bindVarsMap[name]; !seen {
			cur.bindNames = append(cur.bindNames, name)
		}
		cur.bindVarsMap[name] = v
		return nil
	}
	if pos == 0 {
		return NewError(StateViolation, "positional bind requires pos >= 1")
	}
	if n := uint(len(cur.bindVarsArr)); pos > n {
		grown := make([]*Variable, pos)
		copy(grown, cur.bindVarsArr)
		cur.bindVarsArr = grown
	}
	cur.bindVarsArr[pos-1] = v
	return nil
}

// SetArraySize switches the cursor to array binding with the given
// maximum cardinality, discarding all current bindings.
func (cur *Cursor) SetArraySize(n uint) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if n < 1 {
		return NewError(StateViolation, "array size must be at least 1")
	}
	// drop the server handle too: binds pushed down earlier must not
	// survive the reset
	if cur.stmt != nil {
		text := cur.statement
		if err := cur.freeHandle(); err != nil {
			return err
		}
		cur.statement = ""
		if err := cur.internalPrepare(text); err != nil {
			return err
		}
	}
	cur.maxArraySize = n
	cur.bindVarsArr = nil
	cur.bindVarsMap = nil
	cur.bindNames = nil
	cur.bindArraySize = -1
	return nil
}

// BindArray binds a slice at a 1-based position for batch execution.
func (cur *Cursor) BindArray(pos uint, values interface{}) error {
	return cur.bindArray("", pos, values)
}

// BindArrayName binds a slice to a named placeholder for batch
// execution.
func (cur *Cursor) BindArrayName(name string, values interface{}) error {
	return cur.bindArray(name, 0, values)
}

func (cur *Cursor) bindArray(name string, pos uint, values interface{}) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if cur.stmt == nil {
		return NewError(StateViolation, "bind requires a prepared statement")
	}
	vt, size, numElements, err := VarTypeByValue(values)
	if err != nil {
		if errgo.Cause(err) == ListIsEmpty {
			// a shorter array than an already agreed one is a hard
			// error; a zero-length batch is only legal while nothing
			// was agreed, and stays illegal to execute
			if cur.bindArraySize > 0 {
				return NewError(ArityMismatch, fmt.Sprintf(
					"empty array bind, %d elements already agreed", cur.bindArraySize))
			}
			cur.bindArraySize = 0
			return nil
		}
		return err
	}
	if numElements == 0 {
		return NewError(StateViolation, "BindArray requires a slice value")
	}
	if cur.bindArraySize >= 0 && uint(cur.bindArraySize) != numElements {
		return NewError(ArityMismatch, fmt.Sprintf(
			"array bind of %d elements, %d already agreed", numElements, cur.bindArraySize))
	}
	if numElements > cur.maxArraySize {
		return NewError(ArityMismatch, fmt.Sprintf(
			"array bind of %d elements exceeds the declared size %d", numElements, cur.maxArraySize))
	}
	v, err := cur.NewVariable(cur.maxArraySize, vt, size)
	if err != nil {
		return err
	}
	if err = v.makeArray(); err != nil {
		return err
	}
	if err = v.SetValue(0, values); err != nil {
		return err
	}
	if err = cur.storeBindVar(name, pos, v); err != nil {
		return err
	}
	cur.bindArraySize = int(numElements)
	return nil
}

// performBind pushes every stored variable down to the statement
// handle, named binds first in first-bind order.
func (cur *Cursor) performBind() error {
	for _, name := range cur.bindNames {
		if err := cur.bindVarsMap[name].Bind(cur, name, 0); err != nil {
			return err
		}
	}
	for i, v := range cur.bindVarsArr {
		if v == nil {
			return NewError(StateViolation,
				fmt.Sprintf("positional bind %d was never supplied", i+1))
		}
		if err := v.Bind(cur, "", uint(i+1)); err != nil {
			return err
		}
	}
	return nil
}

// Execute prepares (when needed), binds and executes a statement.
// Positional arguments go to listArgs, named ones to namedArgs; the
// two are mutually exclusive.
func (cur *Cursor) Execute(statement string, listArgs []interface{}, namedArgs map[string]interface{}) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if len(listArgs) > 0 && len(namedArgs) > 0 {
		return NewError(StateViolation, "positional and named arguments are mutually exclusive")
	}
	if err := cur.internalPrepare(statement); err != nil {
		return err
	}
	if len(listArgs) > 0 {
		cur.bindVarsArr = nil
		for i, value := range listArgs {
			if err := cur.bindScalar("", uint(i+1), nil, value); err != nil {
				return err
			}
		}
	} else if len(namedArgs) > 0 {
		names := make([]string, 0, len(namedArgs))
		for name := range namedArgs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := cur.bindScalar(name, 0, nil, namedArgs[name]); err != nil {
				return err
			}
		}
	}
	if err := cur.performBind(); err != nil {
		return err
	}
	iters := 1
	if cur.statementKind.IsQuery() {
		iters = 0
	}
	if err := cur.internalExecute(iters); err != nil {
		return err
	}
	if cur.statementKind.IsQuery() {
		return cur.performDefine()
	}
	return nil
}

// ExecuteArray executes the statement once per element of the bound
// arrays.
func (cur *Cursor) ExecuteArray(statement string) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if err := cur.internalPrepare(statement); err != nil {
		return err
	}
	if cur.statementKind.IsQuery() {
		return QueriesNotSupported
	}
	if cur.bindArraySize < 0 {
		return NewError(MissingArraySize, "array execute without array binds")
	}
	if cur.bindArraySize == 0 {
		return NewError(EmptyArrayBind, "array execute with empty arrays")
	}
	if err := cur.performBind(); err != nil {
		return err
	}
	return cur.internalExecute(cur.bindArraySize)
}

func (cur *Cursor) internalExecute(iters int) error {
	debug("%v.internalExecute(%d) %s", cur, iters, cur.statementKind)
	rowCount, err := cur.stmt.Execute(iters)
	if err != nil {
		setErrAt(errgo.Cause(err), "Execute")
		if x, ok := errgo.Cause(err).(*Error); ok && x.Offset == 0 {
			x.Offset = cur.rowCount
		}
		return errgo.Mask(err, errgo.Any)
	}
	cur.executed = true
	if cur.statementKind.IsQuery() {
		cur.rowCount = 0
		cur.actualRows = -1
		cur.rowNum = 0
	} else {
		cur.rowCount = rowCount
	}
	return nil
}

// VariableDescription is the client-side rendition of one result
// column's metadata.
type VariableDescription struct {
	Name                                              string
	Type, InternalSize, DisplaySize, Precision, Scale int
	NullOk                                            bool
}

// performDefine allocates a fetch variable per result column.
func (cur *Cursor) performDefine() error {
	numParams, err := cur.stmt.ColumnCount()
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	cur.fetchVariables = make([]*Variable, numParams)
	cur.columns = make([]VariableDescription, numParams)
	for pos := 1; pos <= numParams; pos++ {
		if err = cur.varDefine(cur.arraySize, uint(pos)); err != nil {
			return err
		}
	}
	return nil
}

func (cur *Cursor) varDefine(numElements, pos uint) error {
	desc, err := cur.stmt.Describe(int(pos))
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	var v *Variable
	if cur.predefined != nil {
		v = cur.predefined[pos]
	}
	if v != nil {
		if v.allocatedElements < numElements {
			return NewError(StateViolation, fmt.Sprintf(
				"predefined column %d holds %d elements, %d needed", pos, v.allocatedElements, numElements))
		}
	} else {
		vt, err := VarTypeByColumn(&desc)
		if err != nil {
			return err
		}
		size := vt.size
		if vt.isVariableLength && desc.InternalSize > 0 {
			size = uint(desc.InternalSize)
		}
		if v, err = cur.NewVariable(numElements, vt, size); err != nil {
			return err
		}
		if v.typ.preDefine != nil {
			if err = v.typ.preDefine(v, &desc); err != nil {
				return err
			}
		}
	}
	if err = cur.stmt.DefineByPos(int(pos), v.buffer); err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	cur.fetchVariables[pos-1] = v

	displaySize := desc.InternalSize
	if v.typ.IsNumber() {
		if desc.Precision > 0 {
			displaySize = desc.Precision + 1
			if desc.Scale > 0 {
				displaySize += desc.Scale + 1
			}
		} else {
			displaySize = 127
		}
	} else if v.typ.IsDate() {
		displaySize = 23
	}
	cur.columns[pos-1] = VariableDescription{
		Name:         desc.Name,
		Type:         int(v.typ.Tag),
		InternalSize: desc.InternalSize,
		DisplaySize:  displaySize,
		Precision:    desc.Precision,
		Scale:        desc.Scale,
		NullOk:       desc.NullOk,
	}
	return nil
}

// DefineColumn overrides the fetch variable type for a 1-based result
// column position before the statement is executed.
func (cur *Cursor) DefineColumn(pos uint, tag TypeTag, size uint) error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	vt, err := registry.ByTag(tag)
	if err != nil {
		return err
	}
	v, err := cur.NewVariable(cur.arraySize, vt, size)
	if err != nil {
		return err
	}
	if cur.predefined == nil {
		cur.predefined = make(map[uint]*Variable)
	}
	cur.predefined[pos] = v
	return nil
}

// SetFetchArraySize sets the number of rows fetched per round trip for
// subsequent executions.
func (cur *Cursor) SetFetchArraySize(n uint) {
	if n >= 1 {
		cur.arraySize = n
	}
}

func (cur *Cursor) verifyFetch() error {
	if !cur.isOpen {
		return CursorIsClosed
	}
	if !cur.executed {
		return NewError(StateViolation, "fetch requires an executed statement")
	}
	if !cur.statementKind.IsQuery() {
		return NewError(StateViolation, "fetch requires a query")
	}
	if cur.fetchVariables == nil {
		// adopted ref cursors define lazily on first fetch
		return cur.performDefine()
	}
	return nil
}

func (cur *Cursor) internalFetch(numRows uint) error {
	for _, v := range cur.fetchVariables {
		v.buffer.ActualElements = numRows
	}
	n, err := cur.stmt.FetchNext()
	if err != nil && err != io.EOF && errgo.Cause(err) != io.EOF {
		setErrAt(errgo.Cause(err), "Fetch")
		return errgo.Mask(err, errgo.Any)
	}
	cur.actualRows = n
	cur.rowNum = 0
	return nil
}

// moreRows reports whether another row can be produced, fetching the
// next batch when the current one is exhausted.
func (cur *Cursor) moreRows() (bool, error) {
	if cur.rowNum >= cur.actualRows {
		if cur.actualRows < 0 || uint(cur.actualRows) == cur.arraySize {
			if err := cur.internalFetch(cur.arraySize); err != nil {
				return false, err
			}
		}
		if cur.rowNum >= cur.actualRows {
			return false, nil
		}
	}
	return true, nil
}

// createRow materializes the current row out of the fetch buffers.
func (cur *Cursor) createRow() ([]interface{}, error) {
	row := make([]interface{}, len(cur.fetchVariables))
	pos := uint(cur.rowNum)
	for i, v := range cur.fetchVariables {
		val, err := v.GetValue(pos)
		if err != nil {
			return nil, err
		}
		row[i] = val
	}
	cur.rowNum++
	cur.rowCount++
	return row, nil
}

// FetchOne returns the next row, io.EOF when the result set is
// exhausted.
func (cur *Cursor) FetchOne() ([]interface{}, error) {
	if err := cur.verifyFetch(); err != nil {
		return nil, err
	}
	ok, err := cur.moreRows()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	return cur.createRow()
}

// FetchOneInto fetches the next row into the given pointers.
func (cur *Cursor) FetchOneInto(targets ...interface{}) error {
	row, err := cur.FetchOne()
	if err != nil {
		return err
	}
	return fetchInto(row, targets...)
}

func fetchInto(row []interface{}, targets ...interface{}) error {
	if len(row) != len(targets) {
		return NewError(ArityMismatch, fmt.Sprintf(
			"fetch of %d columns into %d targets", len(row), len(targets)))
	}
	for i, t := range targets {
		switch x := t.(type) {
		case *interface{}:
			*x = row[i]
		case *string:
			s, ok := row[i].(string)
			if !ok && row[i] != nil {
				return errgo.Newf("column %d is %T, not string", i+1, row[i])
			}
			*x = s
		case *int64:
			n, ok := row[i].(int64)
			if !ok && row[i] != nil {
				return errgo.Newf("column %d is %T, not int64", i+1, row[i])
			}
			*x = n
		case *float64:
			f, ok := row[i].(float64)
			if !ok && row[i] != nil {
				return errgo.Newf("column %d is %T, not float64", i+1, row[i])
			}
			*x = f
		default:
			return errgo.Newf("unsupported fetch target %T", t)
		}
	}
	return nil
}

// FetchMany returns up to numRows rows.
func (cur *Cursor) FetchMany(numRows int) ([][]interface{}, error) {
	if err := cur.verifyFetch(); err != nil {
		return nil, err
	}
	return cur.multiFetch(numRows)
}

// FetchAll returns every remaining row.
func (cur *Cursor) FetchAll() ([][]interface{}, error) {
	return cur.FetchMany(-1)
}

func (cur *Cursor) multiFetch(numRows int) ([][]interface{}, error) {
	var results [][]interface{}
	for numRows < 0 || len(results) < numRows {
		ok, err := cur.moreRows()
		if err != nil {
			return results, err
		}
		if !ok {
			break
		}
		row, err := cur.createRow()
		if err != nil {
			return results, err
		}
		results = append(results, row)
	}
	return results, nil
}

// Description returns the metadata of the executed query's columns.
func (cur *Cursor) Description() ([]VariableDescription, error) {
	if !cur.executed {
		return nil, NewError(StateViolation, "description requires an executed statement")
	}
	if !cur.statementKind.IsQuery() {
		return nil, nil
	}
	if cur.columns == nil {
		if err := cur.performDefine(); err != nil {
			return nil, err
		}
	}
	return cur.columns, nil
}

// GetBindNames returns the named placeholders bound so far, in
// first-bind order.
func (cur *Cursor) GetBindNames() []string {
	out := make([]string, len(cur.bindNames))
	copy(out, cur.bindNames)
	return out
}

// GetRowCount returns the rows affected (DML) or produced so far
// (query).
func (cur *Cursor) GetRowCount() int { return cur.rowCount }

// OutBindValues returns the current value of every bound variable,
// positional binds first, then named binds in first-bind order.
func (cur *Cursor) OutBindValues() ([]interface{}, error) {
	out := make([]interface{}, 0, len(cur.bindVarsArr)+len(cur.bindNames))
	for _, v := range cur.bindVarsArr {
		if v == nil {
			continue
		}
		val, err := v.GetValue(0)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	for _, name := range cur.bindNames {
		val, err := cur.bindVarsMap[name].GetValue(0)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// adopt takes ownership of a statement handle the server returned,
// as happens with ref cursor out binds.
func (cur *Cursor) adopt(h Stmt) {
	cur.stmt = h
	cur.statement = ""
	cur.statementKind = StmtSelect
	cur.executed = true
	cur.fetchVariables = nil
	cur.columns = nil
	cur.rowCount = 0
	cur.actualRows = -1
	cur.rowNum = 0
}

// Close releases the cursor. Closing twice is fine.
func (cur *Cursor) Close() error {
	if !cur.isOpen {
		return nil
	}
	cur.isOpen = false
	err := cur.freeHandle()
	for _, v := range cur.fetchVariables {
		if v != nil {
			v.Free()
		}
	}
	for _, v := range cur.bindVarsArr {
		if v != nil {
			v.Free()
		}
	}
	for _, v := range cur.bindVarsMap {
		v.Free()
	}
	cur.bindVarsArr = nil
	cur.bindVarsMap = nil
	cur.bindNames = nil
	cur.fetchVariables = nil
	cur.columns = nil
	cur.predefined = nil
	cur.statement = ""
	cur.statementTag = nil
	cur.executed = false
	if cur.connection != nil {
		cur.connection.forget(cur)
	}
	return err
}

func (cur *Cursor) freeHandle() error {
	if cur.stmt == nil {
		return nil
	}
	err := cur.stmt.Close()
	cur.stmt = nil
	if err != nil {
		return errgo.Mask(err, errgo.Any)
	}
	return nil
}

// hashTag derives the statement cache tag of a statement text.
func hashTag(statement string) []byte {
	h := fnv.New64a()
	io.WriteString(h, statement)
	return h.Sum(nil)
}
