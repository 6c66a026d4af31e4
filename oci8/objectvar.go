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

// ObjectVarType is the variable type for server-side named (object)
// types.
var ObjectVarType *VariableType

// ObjectValue is one instance of a server-side named type.
type ObjectValue struct {
	Type       *TypeDescriptor
	Attributes map[string]interface{}
}

// ObjectBinder lets a Go type bind itself as a named server type; the
// descriptor is resolved from the connection's type cache.
type ObjectBinder interface {
	TypeName() string
	ObjectAttributes() map[string]interface{}
}

func objectVarSetValue(v *Variable, pos uint, value interface{}) error {
	switch x := value.(type) {
	case *ObjectValue:
		v.typeDesc = x.Type
		return v.buffer.PutValue(pos, x)
	case ObjectBinder:
		if v.connection == nil {
			return errgo.New("object bind requires a connection")
		}
		desc, err := v.connection.ObjectType(x.TypeName())
		if err != nil {
			return err
		}
		v.typeDesc = desc
		return v.buffer.PutValue(pos, &ObjectValue{
			Type:       desc,
			Attributes: x.ObjectAttributes(),
		})
	}
	return errgo.Newf("requires *ObjectValue or ObjectBinder, got %T", value)
}

func objectVarGetValue(v *Variable, pos uint) (interface{}, error) {
	if v.buffer.Values == nil {
		return nil, nil
	}
	return v.buffer.Values[pos], nil
}

func objectVarIsNull(v *Variable, pos uint) bool {
	return v.buffer.Values == nil || v.buffer.Values[pos] == nil
}

func init() {
	ObjectVarType = &VariableType{
		Name:     "Object",
		Tag:      TagObject,
		size:     8,
		isNull:   objectVarIsNull,
		getValue: objectVarGetValue,
		setValue: objectVarSetValue,
	}
	registry.Register(ObjectVarType)
}
