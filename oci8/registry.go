package oci8

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// TypeTag enumerates the wire-level data domains. It doubles as the
// database type code reported in column metadata, so resolution by
// value, by explicit tag and by server metadata all land in the same
// closed set.
type TypeTag uint8

const (
	TagNone TypeTag = iota
	TagChar
	TagFixedChar
	TagRowid
	TagBinary
	TagLongString
	TagLongBinary
	TagInt32
	TagInt64
	TagLongInteger
	TagFloat
	TagNativeFloat
	TagNumberAsString
	TagBoolean
	TagDateTime
	TagInterval
	TagCursor
	TagObject
	TagNull
)

var tagNames = map[TypeTag]string{
	TagNone:           "None",
	TagChar:           "String",
	TagFixedChar:      "FixedChar",
	TagRowid:          "Rowid",
	TagBinary:         "Binary",
	TagLongString:     "LongString",
	TagLongBinary:     "LongBinary",
	TagInt32:          "Int32",
	TagInt64:          "Int64",
	TagLongInteger:    "LongInteger",
	TagFloat:          "Float",
	TagNativeFloat:    "NativeFloat",
	TagNumberAsString: "NumberAsString",
	TagBoolean:        "Boolean",
	TagDateTime:       "DateTime",
	TagInterval:       "Interval",
	TagCursor:         "Cursor",
	TagObject:         "Object",
	TagNull:           "Null",
}

func (t TypeTag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Registry maps type descriptors (tags, Go types, displayable names) to
// VariableTypes. It is process-wide, initialized by the variable-type
// init functions, and safe for concurrent readers with occasional
// writers; a successful secondary (by-name) lookup is cached back into
// the primary table and never evicted.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[TypeTag]*VariableType
	byType map[reflect.Type]*VariableType
	byName map[string]*VariableType
}

var registry = &Registry{
	byTag:  make(map[TypeTag]*VariableType),
	byType: make(map[reflect.Type]*VariableType),
	byName: make(map[string]*VariableType),
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return registry }

// Register adds a VariableType under its tag and displayable name.
func (r *Registry) Register(vt *VariableType) {
	r.mu.Lock()
	r.byTag[vt.Tag] = vt
	r.byName[vt.Name] = vt
	r.mu.Unlock()
}

// RegisterGoType binds the dynamic type of sample to vt, so values of
// that type resolve directly.
func (r *Registry) RegisterGoType(sample interface{}, vt *VariableType) {
	t := reflect.TypeOf(sample)
	r.mu.Lock()
	r.byType[t] = vt
	r.byName[t.String()] = vt
	r.mu.Unlock()
}

// RegisterName binds a displayable type name to vt. This supports late
// registration of handlers for types not known when the registry was
// built: a by-type miss retries by name before failing.
func (r *Registry) RegisterName(name string, vt *VariableType) {
	r.mu.Lock()
	r.byName[name] = vt
	r.mu.Unlock()
}

// ByTag resolves an explicit type tag.
func (r *Registry) ByTag(tag TypeTag) (*VariableType, error) {
	r.mu.RLock()
	vt := r.byTag[tag]
	r.mu.RUnlock()
	if vt == nil {
		return nil, NewError(UnsupportedType, "no variable type for tag "+tag.String())
	}
	return vt, nil
}

// lookupType resolves a Go type, retrying by its displayable name on a
// direct miss and caching the hit back into the primary table.
func (r *Registry) lookupType(t reflect.Type) *VariableType {
	r.mu.RLock()
	vt := r.byType[t]
	r.mu.RUnlock()
	if vt != nil {
		return vt
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if vt = r.byType[t]; vt != nil {
		return vt
	}
	if vt = r.byName[t.String()]; vt != nil {
		r.byType[t] = vt // self-extension: next resolve hits directly
	}
	return vt
}

// OraTyper lets custom Go types pick their VariableType.
type OraTyper interface {
	GetVarType() *VariableType
}

// VarTypeByValue returns the VariableType for a Go value, together with
// its declared size and, for slices, the element count. A nil value
// carries no type information and cannot be resolved; supply an
// explicit tag instead.
func VarTypeByValue(data interface{}) (vt *VariableType, size uint, numElements uint, err error) {
	if data == nil {
		return nil, 0, 0, NewError(UnsupportedType, "bind type is not given")
	}
	switch x := data.(type) {
	case *VariableType:
		if x == nil {
			return nil, 0, 0, NewError(UnsupportedType, "bind type is not given")
		}
		return x, x.size, 0, nil
	case *Variable:
		if x == nil {
			return nil, 0, 0, NewError(UnsupportedType, "bind type is not given")
		}
		return x.typ, x.typ.size, 0, nil

	case string:
		if uint(len(x)) > MaxStringChars {
			return LongStringVarType, uint(len(x)), 0, nil
		}
		return StringVarType, uint(len(x)), 0, nil
	case []string:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case bool:
		return BooleanVarType, 0, 0, nil

	case int8, uint8, int16, uint16, int32, uint32, int, uint:
		return Int32VarType, 0, 0, nil
	case []int32:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case int64, uint64:
		return Int64VarType, 0, 0, nil
	case []int64:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case float32, float64:
		return FloatVarType, 0, 0, nil
	case []float32:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err
	case []float64:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case time.Time:
		return DateTimeVarType, 0, 0, nil
	case []time.Time:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case time.Duration:
		return IntervalVarType, 0, 0, nil

	case []byte:
		if uint(len(x)) > MaxBinaryBytes {
			return LongBinaryVarType, uint(len(x)), 0, nil
		}
		return BinaryVarType, uint(len(x)), 0, nil
	case [][]byte:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err

	case *Cursor:
		return CursorVarType, 0, 0, nil
	case *ObjectValue:
		return ObjectVarType, 0, 0, nil

	case []interface{}:
		numElements = uint(len(x))
		if numElements == 0 {
			return nil, 0, 0, ListIsEmpty
		}
		vt, size, _, err = VarTypeByValue(x[0])
		return vt, size, numElements, err
	}

	if _, ok := data.(ObjectBinder); ok {
		return ObjectVarType, 0, 0, nil
	}
	if x, ok := data.(OraTyper); ok {
		return x.GetVarType(), 0, 0, nil
	}

	if t := reflect.TypeOf(data); t != nil {
		if vt := registry.lookupType(t); vt != nil {
			return vt, vt.size, 0, nil
		}
	}

	return nil, 0, 0, NewError(UnsupportedType,
		fmt.Sprintf("unhandled data type %T", data))
}

// VarTypeByColumn resolves the VariableType for a server-described
// column.
func VarTypeByColumn(desc *ColumnDescription) (*VariableType, error) {
	return registry.ByTag(desc.Type)
}
