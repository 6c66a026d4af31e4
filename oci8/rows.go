package oci8

// Rows iterates a query's result set row by row. It owns its cursor:
// Close releases the statement handle, and iterating to exhaustion
// leaves the cursor ready to close.
type Rows struct {
	cur  *Cursor
	row  []interface{}
	err  error
	done bool
}

func newRows(cur *Cursor) *Rows {
	return &Rows{cur: cur}
}

// Next advances to the next row, returning false at exhaustion or on
// error. A finished iterator stays finished.
func (r *Rows) Next() bool {
	if r.done {
		return false
	}
	ok, err := r.cur.moreRows()
	if err != nil {
		r.err = err
		r.done = true
		return false
	}
	if !ok {
		r.done = true
		return false
	}
	if r.row, r.err = r.cur.createRow(); r.err != nil {
		r.done = true
		return false
	}
	return true
}

// Row returns the row Next advanced to.
func (r *Rows) Row() []interface{} { return r.row }

// Err returns the error that stopped iteration, if any.
func (r *Rows) Err() error { return r.err }

// Columns returns the result set's column metadata.
func (r *Rows) Columns() ([]VariableDescription, error) {
	return r.cur.Description()
}

// Close releases the underlying cursor.
func (r *Rows) Close() error {
	r.done = true
	return r.cur.Close()
}
