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

// The interfaces below are the narrow seam to the call-level interface
// that actually moves bytes to and from the server. This package only
// decides what to put into the buffers and how to interpret what comes
// back; authentication, networking and round-trip cancellation belong
// to the transport.

// Credentials is what a Driver needs to open a session. PoolID, when
// set, names the session pool the connection was dispensed from.
type Credentials struct {
	Username string
	Password string
	DSN      string
	PoolID   string
}

// Driver opens authenticated sessions.
type Driver interface {
	Open(Credentials) (Session, error)
}

// DefaultDriver is the process-wide transport used by commands that
// dial by DSN alone. A transport implementation sets it from its init.
var DefaultDriver Driver

// Session is one authenticated channel to the server. The server
// processes requests on it serially; nothing here may be assumed to
// proceed concurrently.
type Session interface {
	Prepare(text string) (Stmt, error)
	LookupNamedType(name string) (*TypeDescriptor, error)
	Username() string
	ServerVersion() string
	Charset() string
	Break() error
	Close() error
}

// Stmt is a server-side prepared statement handle. The *Buffer passed
// to the bind/define calls stays shared: the transport reads input
// binds from it and writes fetched data into it.
type Stmt interface {
	BindByPos(pos int, b *Buffer) error
	BindByName(name string, b *Buffer) error
	Execute(iters int) (rowCount int, err error)
	ColumnCount() (int, error)
	Describe(pos int) (ColumnDescription, error)
	DefineByPos(pos int, b *Buffer) error
	// FetchNext fills the defined buffers with up to their allocated
	// number of rows and returns how many arrived; io.EOF when none.
	FetchNext() (int, error)
	Close() error
}

// ColumnDescription is the server-reported metadata of one select-list
// item.
type ColumnDescription struct {
	Name         string
	Type         TypeTag
	InternalSize int
	Precision    int
	Scale        int
	NullOk       bool
	// TypeName names the server-side type of object columns.
	TypeName string
}

// TypeDescriptor describes a server-side named (object) type.
type TypeDescriptor struct {
	Schema     string
	Name       string
	Attributes []TypeAttribute
}

// TypeAttribute is one attribute of a named type.
type TypeAttribute struct {
	Name string
	Type TypeTag
	Size uint
}
