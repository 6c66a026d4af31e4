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

var (
	// StringVarType is the variable type for VARCHAR2-like text.
	StringVarType *VariableType
	// FixedCharVarType is the variable type for CHAR.
	FixedCharVarType *VariableType
	// RowidVarType is the variable type for ROWID.
	RowidVarType *VariableType
	// BinaryVarType is the variable type for RAW.
	BinaryVarType *VariableType
	// LongStringVarType is the variable type for LONG text.
	LongStringVarType *VariableType
	// LongBinaryVarType is the variable type for LONG RAW.
	LongBinaryVarType *VariableType
)

// IsString reports whether the type holds character data.
func (t *VariableType) IsString() bool {
	return t.isCharData
}

// IsBinary reports whether the type holds raw bytes.
func (t *VariableType) IsBinary() bool {
	switch t {
	case BinaryVarType, LongBinaryVarType:
		return true
	}
	return false
}

func stringVarSetValue(v *Variable, pos uint, value interface{}) error {
	var p []byte
	switch x := value.(type) {
	case string:
		p = v.environment.ToEncodedBytes(x)
	case []byte:
		p = x
	case []string:
		for i := range x {
			if err := stringVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return errgo.Newf("error setting pos=%d: %s", pos+uint(i), err)
			}
		}
		return nil
	case [][]byte:
		for i := range x {
			if err := stringVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return errgo.Newf("error setting pos=%d: %s", pos+uint(i), err)
			}
		}
		return nil
	default:
		return errgo.Newf("string or []byte required, got %T", value)
	}
	length := uint(len(p))
	if v.typ.isCharData && length > MaxStringChars {
		return errgo.New("string data too large")
	}
	if !v.typ.isCharData && length > MaxBinaryBytes {
		return errgo.New("binary data too large")
	}
	if length > v.buffer.BufferSize {
		if err := v.resize(length); err != nil {
			return err
		}
	}
	v.buffer.PutBytes(pos, p)
	return nil
}

// longVarSetValue is the setter for the long variants: no inline width
// cap, the element grows to whatever the value needs.
func longVarSetValue(v *Variable, pos uint, value interface{}) error {
	var p []byte
	switch x := value.(type) {
	case string:
		p = v.environment.ToEncodedBytes(x)
	case []byte:
		p = x
	default:
		return errgo.Newf("string or []byte required, got %T", value)
	}
	if length := uint(len(p)); length > v.buffer.BufferSize {
		if err := v.resize(length); err != nil {
			return err
		}
	}
	v.buffer.PutBytes(pos, p)
	return nil
}

func stringVarGetValue(v *Variable, pos uint) (interface{}, error) {
	p := v.buffer.Bytes(pos)
	if v.typ.IsBinary() {
		out := make([]byte, len(p))
		copy(out, p)
		return out, nil
	}
	return v.environment.FromEncodedString(p), nil
}

// character widths scale with the session charset, byte widths do not
func stringVarGetBufferSize(v *Variable) uint {
	if v.typ.isCharData {
		return v.size * v.environment.MaxBytesPerCharacter
	}
	return v.size
}

func init() {
	StringVarType = &VariableType{
		Name:             "String",
		Tag:              TagChar,
		isVariableLength: true,
		isCharData:       true,
		size:             MaxStringChars,
		canBeInArray:     true,
		getValue:         stringVarGetValue,
		setValue:         stringVarSetValue,
		getBufferSize:    stringVarGetBufferSize,
	}
	FixedCharVarType = &VariableType{
		Name:             "FixedChar",
		Tag:              TagFixedChar,
		isVariableLength: true,
		isCharData:       true,
		size:             2000,
		canBeInArray:     true,
		getValue:         stringVarGetValue,
		setValue:         stringVarSetValue,
		getBufferSize:    stringVarGetBufferSize,
	}
	RowidVarType = &VariableType{
		Name:         "Rowid",
		Tag:          TagRowid,
		isCharData:   true,
		size:         18,
		canBeInArray: true,
		getValue:     stringVarGetValue,
		setValue:     stringVarSetValue,
		getBufferSize: func(v *Variable) uint {
			return v.size * v.environment.MaxBytesPerCharacter
		},
	}
	BinaryVarType = &VariableType{
		Name:             "Binary",
		Tag:              TagBinary,
		isVariableLength: true,
		size:             MaxBinaryBytes,
		canBeInArray:     true,
		getValue:         stringVarGetValue,
		setValue:         stringVarSetValue,
	}
	LongStringVarType = &VariableType{
		Name:             "LongString",
		Tag:              TagLongString,
		isVariableLength: true,
		isCharData:       true,
		size:             128 * 1024,
		getValue:         stringVarGetValue,
		setValue:         longVarSetValue,
		getBufferSize:    stringVarGetBufferSize,
	}
	LongBinaryVarType = &VariableType{
		Name:             "LongBinary",
		Tag:              TagLongBinary,
		isVariableLength: true,
		size:             128 * 1024,
		getValue:         stringVarGetValue,
		setValue:         longVarSetValue,
	}

	registry.Register(StringVarType)
	registry.Register(FixedCharVarType)
	registry.Register(RowidVarType)
	registry.Register(BinaryVarType)
	registry.Register(LongStringVarType)
	registry.Register(LongBinaryVarType)
	registry.RegisterGoType("", StringVarType)
	registry.RegisterGoType([]byte(nil), BinaryVarType)
}
