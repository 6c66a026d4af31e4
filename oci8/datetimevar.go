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
	"time"

	"gopkg.in/errgo.v1"
)

var (
	// DateTimeVarType is the variable type for DATE and TIMESTAMP.
	DateTimeVarType *VariableType
	// IntervalVarType is the variable type for day-to-second intervals.
	IntervalVarType *VariableType
)

// IsDate reports whether the type holds date/time data.
func (t *VariableType) IsDate() bool {
	return t == DateTimeVarType || t == IntervalVarType
}

func dateTimeVarSetValue(v *Variable, pos uint, value interface{}) error {
	switch x := value.(type) {
	case time.Time:
		v.buffer.PutTime(pos, x)
		return nil
	case []time.Time:
		for i := range x {
			if err := dateTimeVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return errgo.Newf("requires time.Time, got %T", value)
}

func dateTimeVarGetValue(v *Variable, pos uint) (interface{}, error) {
	return v.buffer.Time(pos), nil
}

func intervalVarSetValue(v *Variable, pos uint, value interface{}) error {
	switch x := value.(type) {
	case time.Duration:
		v.buffer.PutInt64(pos, int64(x))
		return nil
	case []time.Duration:
		for i := range x {
			if err := intervalVarSetValue(v, pos+uint(i), x[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return errgo.Newf("requires time.Duration, got %T", value)
}

func intervalVarGetValue(v *Variable, pos uint) (interface{}, error) {
	return time.Duration(v.buffer.Int64(pos)), nil
}

func init() {
	DateTimeVarType = &VariableType{
		Name:         "DateTime",
		Tag:          TagDateTime,
		size:         12,
		canBeInArray: true,
		getValue:     dateTimeVarGetValue,
		setValue:     dateTimeVarSetValue,
	}
	IntervalVarType = &VariableType{
		Name:         "Interval",
		Tag:          TagInterval,
		size:         8,
		canBeInArray: true,
		getValue:     intervalVarGetValue,
		setValue:     intervalVarSetValue,
	}

	registry.Register(DateTimeVarType)
	registry.Register(IntervalVarType)
	registry.RegisterGoType(time.Time{}, DateTimeVarType)
	registry.RegisterGoType(time.Duration(0), IntervalVarType)
}
