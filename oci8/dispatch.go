package oci8

// RowCallback receives one result row per call. A non-nil return stops
// the iteration and surfaces as the execution error.
type RowCallback func(row []interface{}) error

// Result is what executing one statement produced; which fields are
// set follows the statement's kind.
type Result struct {
	Kind StatementKind
	// RowsAffected counts affected rows for DML, produced rows for a
	// query consumed through a callback.
	RowsAffected int
	// OutValues holds the bound values read back after a PL/SQL block.
	OutValues []interface{}
	// Rows is the live iterator of an uncallbacked query; the caller
	// owns it and must close it.
	Rows *Rows
}

// dispatch interprets an executed cursor according to its statement
// kind.
func dispatch(cur *Cursor, each RowCallback) (*Result, error) {
	res := &Result{Kind: cur.statementKind}
	switch {
	case cur.statementKind.IsQuery():
		rows := newRows(cur)
		if each == nil {
			res.Rows = rows
			return res, nil
		}
		for rows.Next() {
			if err := each(rows.Row()); err != nil {
				return nil, err
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		res.RowsAffected = cur.rowCount
	case cur.statementKind.IsPLSQL():
		out, err := cur.OutBindValues()
		if err != nil {
			return nil, err
		}
		res.OutValues = out
		if each != nil {
			if err = each(out); err != nil {
				return nil, err
			}
		}
	default:
		res.RowsAffected = cur.rowCount
	}
	return res, nil
}
