package oci8

import (
	"gopkg.in/errgo.v1"
)

// NullVarType is the variable type for binds that are always NULL,
// selected by an explicit tag on a typed nil bind.
var NullVarType *VariableType

func nullVarIsNull(v *Variable, pos uint) bool { return true }

func nullVarSetValue(v *Variable, pos uint, value interface{}) error {
	if value != nil {
		return errgo.Newf("Null variable accepts only nil, got %T", value)
	}
	v.buffer.SetNull(pos)
	return nil
}

func nullVarGetValue(v *Variable, pos uint) (interface{}, error) {
	return nil, nil
}

func init() {
	NullVarType = &VariableType{
		Name:         "Null",
		Tag:          TagNull,
		size:         2,
		canBeInArray: true,
		isNull:       nullVarIsNull,
		getValue:     nullVarGetValue,
		setValue:     nullVarSetValue,
	}
	registry.Register(NullVarType)
}
