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
	"strconv"

	"gopkg.in/errgo.v1"
)

var (
	// FloatVarType is the default variable type for NUMBER columns.
	FloatVarType *VariableType
	// NativeFloatVarType is the variable type for BINARY_DOUBLE.
	NativeFloatVarType *VariableType
	// Int32VarType is the variable type for integers up to 9 digits.
	Int32VarType *VariableType
	// Int64VarType is the variable type for integers up to 18 digits.
	Int64VarType *VariableType
	// LongIntegerVarType is the variable type for wider integers.
	LongIntegerVarType *VariableType
	// NumberAsStringVarType keeps full numeric precision as text.
	NumberAsStringVarType *VariableType
	// BooleanVarType is the variable type for PL/SQL booleans.
	BooleanVarType *VariableType
)

// IsNumber reports whether the type holds numeric data.
func (t *VariableType) IsNumber() bool {
	switch t {
	case FloatVarType, NativeFloatVarType, Int32VarType, Int64VarType,
		LongIntegerVarType, NumberAsStringVarType, BooleanVarType:
		return true
	}
	return false
}

// IsInteger reports whether the type holds integer data.
func (t *VariableType) IsInteger() bool {
	switch t {
	case Int32VarType, Int64VarType, LongIntegerVarType, BooleanVarType:
		return true
	}
	return false
}

// IsFloat reports whether the type holds floating-point data.
func (t *VariableType) IsFloat() bool {
	return t == NativeFloatVarType || t == FloatVarType
}

// numberVarPreDefine narrows a generic NUMBER column to an integer
// representation when precision and scale say it has no fraction.
func numberVarPreDefine(v *Variable, desc *ColumnDescription) error {
	if desc.Precision > 0 && (desc.Scale == 0 || desc.Scale == -127) {
		switch {
		case desc.Precision < 10:
			v.typ = Int32VarType
		case desc.Precision < 19:
			v.typ = Int64VarType
		default:
			v.typ = LongIntegerVarType
		}
		v.buffer.Tag = v.typ.Tag
	}
	return nil
}

func numberVarSetValue(v *Variable, pos uint, value interface{}) error {
	debug("numberVarSetValue(%v, %d, %v %T)", v, pos, value, value)
	switch x := value.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if v.typ.IsFloat() {
			n, err := int64Of(x)
			if err != nil {
				return err
			}
			v.buffer.PutFloat64(pos, float64(n))
			return nil
		}
		return errgo.Mask(v.buffer.PutValue(pos, x), errgo.Any)
	case float32:
		return errgo.Mask(v.buffer.PutValue(pos, x), errgo.Any)
	case float64:
		return errgo.Mask(v.buffer.PutValue(pos, x), errgo.Any)
	case string:
		if v.typ == NumberAsStringVarType {
			return stringVarSetValue(v, pos, v.environment.ToEncodedBytes(x))
		}
		if v.typ.IsInteger() {
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return errgo.Mask(err, errgo.Any)
			}
			return errgo.Mask(v.buffer.PutValue(pos, n), errgo.Any)
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return errgo.Mask(err, errgo.Any)
		}
		v.buffer.PutFloat64(pos, f)
		return nil
	case []int:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	case []int32:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	case []int64:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	case []float32:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	case []float64:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	case []bool:
		for i := range x {
			if err := numberVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if x, ok := value.(fmt.Stringer); ok {
		return numberVarSetValue(v, pos, x.String())
	}
	return errgo.Newf("required some kind of number, got %T", value)
}

func numberVarGetValue(v *Variable, pos uint) (interface{}, error) {
	switch {
	case v.typ == BooleanVarType:
		return v.buffer.Int64(pos) > 0, nil
	case v.typ == NumberAsStringVarType:
		return v.environment.FromEncodedString(v.buffer.Bytes(pos)), nil
	case v.typ.IsInteger():
		return v.buffer.Int64(pos), nil
	}
	return v.buffer.Float64(pos), nil
}

func init() {
	FloatVarType = &VariableType{
		Name:         "Float",
		Tag:          TagFloat,
		size:         8,
		canBeInArray: true,
		preDefine:    numberVarPreDefine,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}
	NativeFloatVarType = &VariableType{
		Name:         "NativeFloat",
		Tag:          TagNativeFloat,
		size:         8,
		canBeInArray: true,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}
	Int32VarType = &VariableType{
		Name:         "Int32",
		Tag:          TagInt32,
		size:         8,
		canBeInArray: true,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}
	Int64VarType = &VariableType{
		Name:         "Int64",
		Tag:          TagInt64,
		size:         8,
		canBeInArray: true,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}
	LongIntegerVarType = &VariableType{
		Name:         "LongInteger",
		Tag:          TagLongInteger,
		size:         8,
		canBeInArray: true,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}
	NumberAsStringVarType = &VariableType{
		Name:             "NumberAsString",
		Tag:              TagNumberAsString,
		isVariableLength: true,
		isCharData:       true,
		size:             40,
		canBeInArray:     true,
		getValue:         numberVarGetValue,
		setValue:         numberVarSetValue,
		getBufferSize:    stringVarGetBufferSize,
	}
	BooleanVarType = &VariableType{
		Name:         "Boolean",
		Tag:          TagBoolean,
		size:         8,
		canBeInArray: true,
		getValue:     numberVarGetValue,
		setValue:     numberVarSetValue,
	}

	registry.Register(FloatVarType)
	registry.Register(NativeFloatVarType)
	registry.Register(Int32VarType)
	registry.Register(Int64VarType)
	registry.Register(LongIntegerVarType)
	registry.Register(NumberAsStringVarType)
	registry.Register(BooleanVarType)
	registry.RegisterGoType(int(0), Int32VarType)
	registry.RegisterGoType(int32(0), Int32VarType)
	registry.RegisterGoType(int64(0), Int64VarType)
	registry.RegisterGoType(float32(0), FloatVarType)
	registry.RegisterGoType(float64(0), FloatVarType)
	registry.RegisterGoType(false, BooleanVarType)
}
