/*
Package godrv exposes the oci8 package through database/sql.

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
package godrv

import (
	"database/sql"
	"database/sql/driver"
	"strconv"
	"strings"

	"gopkg.in/errgo.v1"

	"github.com/Captnwalker1/ruby-oci8/oci8"
)

// NotImplemented is returned for driver capabilities this package does
// not provide.
var NotImplemented = errgo.New("not implemented")

// Driver dials connections over the given transport.
type Driver struct {
	transport oci8.Driver
}

// Register publishes the driver under the given database/sql name.
func Register(name string, transport oci8.Driver) {
	sql.Register(name, &Driver{transport: transport})
}

// Open dials USER/PASSWD@SID over the driver's transport.
func (d *Driver) Open(uri string) (driver.Conn, error) {
	user, passwd, db := oci8.SplitDSN(uri)
	cx, err := oci8.NewConnection(d.transport, user, passwd, db)
	if err == nil {
		err = cx.Connect()
	}
	if err != nil {
		return nil, filterErr(err)
	}
	return &conn{cx: cx}, nil
}

type conn struct {
	cx *oci8.Connection
}

// filterErr maps connection-level server errors to driver.ErrBadConn,
// so database/sql retries on a fresh connection.
func filterErr(err error) error {
	if x, ok := errgo.Cause(err).(*oci8.Error); ok {
		switch x.Code {
		case 115, 451, 452, 609, 1090, 1092, 3113, 3114, 3135, 3136,
			12153, 12161, 12170, 12224, 12230, 12233, 12510, 12511, 12514,
			12518, 12526, 12527, 12528, 12539:
			return driver.ErrBadConn
		}
	}
	return err
}

// rewritePlaceholders turns ? placeholders into :1..:n ones, leaving
// quoted literals alone. Statements already carrying :1 are returned
// unchanged.
func rewritePlaceholders(query string) string {
	if strings.Contains(query, ":1") || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n, inString := 0, false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inString = !inString
			b.WriteByte(c)
		case c == '?' && !inString:
			n++
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Prepare the query for execution, return a prepared statement and error
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	query = rewritePlaceholders(query)
	cu := c.cx.NewCursor()
	if err := cu.Parse(query); err != nil {
		cu.Close()
		return nil, filterErr(err)
	}
	return &stmt{cu: cu, statement: query}, nil
}

func (c *conn) Close() error {
	err := c.cx.Close()
	c.cx = nil
	return err
}

type tx struct {
	cx *oci8.Connection
}

func (c *conn) Begin() (driver.Tx, error) {
	if !c.cx.IsConnected() {
		if err := c.cx.Connect(); err != nil {
			return nil, filterErr(err)
		}
	}
	return tx{cx: c.cx}, nil
}

func (t tx) Commit() error {
	if t.cx == nil {
		return nil
	}
	_, err := t.cx.Run("COMMIT")
	return err
}

func (t tx) Rollback() error {
	if t.cx == nil {
		return nil
	}
	_, err := t.cx.Run("ROLLBACK")
	return err
}

type stmt struct {
	cu        *oci8.Cursor
	statement string
}

func (s *stmt) Close() error {
	if s.cu != nil {
		err := s.cu.Close()
		s.cu = nil
		return err
	}
	return nil
}

// NumInput reports the number of placeholders as unknown; binds are
// checked at execute time.
func (s *stmt) NumInput() int {
	return -1
}

type rowsRes struct {
	cu   *oci8.Cursor
	cols []oci8.VariableDescription
}

func (s *stmt) run(args []driver.Value) (*rowsRes, error) {
	params := make([]interface{}, len(args))
	for i, a := range args {
		params[i] = a
	}
	if err := s.cu.Execute(s.statement, params, nil); err != nil {
		return nil, filterErr(err)
	}
	var cols []oci8.VariableDescription
	if s.cu.Kind().IsQuery() {
		var err error
		if cols, err = s.cu.Description(); err != nil {
			return nil, errgo.Mask(err, errgo.Any)
		}
	}
	return &rowsRes{cu: s.cu, cols: cols}, nil
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.run(args)
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.run(args)
}

func (r *rowsRes) LastInsertId() (int64, error) {
	return -1, NotImplemented
}

func (r *rowsRes) RowsAffected() (int64, error) {
	return int64(r.cu.GetRowCount()), nil
}

func (r *rowsRes) Columns() []string {
	cls := make([]string, len(r.cols))
	for i, c := range r.cols {
		cls[i] = c.Name
	}
	return cls
}

// Close detaches the result set; the statement keeps the cursor.
func (r *rowsRes) Close() error {
	r.cu = nil
	return nil
}

func (r *rowsRes) Next(dest []driver.Value) error {
	row, err := r.cu.FetchOne()
	if err != nil {
		return err
	}
	if len(row) != len(dest) {
		return errgo.Newf("fetched %d columns into %d destinations", len(row), len(dest))
	}
	for i := range row {
		dest[i] = row[i]
	}
	return nil
}

// The default registration dials over oci8.DefaultDriver, whichever
// transport installed itself.
func init() {
	Register("oci8", nil)
}
