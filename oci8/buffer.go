package oci8

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"gopkg.in/errgo.v1"
)

// Buffer is the wire-level value area a Variable shares with the
// transport. Layout per element is governed by Tag; variable-length
// domains record the source width in ActualLength, so a server value
// wider than one element comes back truncated to the declared width
// instead of failing.
type Buffer struct {
	Tag          TypeTag
	BufferSize   uint // width of one element in bytes
	Allocated    uint // number of elements
	Data         []byte
	Indicator    []int16 // nullIndicator marks NULL
	ActualLength []uint32
	ReturnCode   []uint16

	// Array binds share one logical cardinality per execution.
	IsArray        bool
	ActualElements uint

	// Side channels for handle-typed domains.
	Handles []Stmt        // nested cursor statement handles
	Values  []interface{} // object-typed payloads
}

const (
	nullIndicator = -1
	// rcTruncated mirrors the server's "fetched value was truncated"
	// return code; decoding treats it as policy, not failure.
	rcTruncated = 1406
)

// SetNull marks the element at pos NULL.
func (b *Buffer) SetNull(pos uint) { b.Indicator[pos] = nullIndicator }

// IsNull reports whether the element at pos is NULL.
func (b *Buffer) IsNull(pos uint) bool { return b.Indicator[pos] == nullIndicator }

func (b *Buffer) elem(pos uint) []byte {
	off := pos * b.BufferSize
	return b.Data[off : off+b.BufferSize]
}

// PutBytes writes raw bytes into the element at pos, truncating to the
// element width. The full source width is kept in ActualLength and a
// truncation return code is recorded when it did not fit.
func (b *Buffer) PutBytes(pos uint, p []byte) {
	b.Indicator[pos] = 0
	n := copy(b.elem(pos), p)
	b.ActualLength[pos] = uint32(len(p))
	if n < len(p) {
		b.ReturnCode[pos] = rcTruncated
	} else {
		b.ReturnCode[pos] = 0
	}
}

// Bytes returns the element at pos clamped to the element width: the
// bound-output width governs, a wider server value is silently cut.
func (b *Buffer) Bytes(pos uint) []byte {
	n := uint(b.ActualLength[pos])
	if n > b.BufferSize {
		n = b.BufferSize
	}
	off := pos * b.BufferSize
	return b.Data[off : off+n]
}

func (b *Buffer) PutInt64(pos uint, v int64) {
	b.Indicator[pos] = 0
	binary.LittleEndian.PutUint64(b.elem(pos), uint64(v))
	b.ActualLength[pos] = 8
}

func (b *Buffer) Int64(pos uint) int64 {
	return int64(binary.LittleEndian.Uint64(b.elem(pos)))
}

func (b *Buffer) PutFloat64(pos uint, v float64) {
	b.Indicator[pos] = 0
	binary.LittleEndian.PutUint64(b.elem(pos), math.Float64bits(v))
	b.ActualLength[pos] = 8
}

func (b *Buffer) Float64(pos uint) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b.elem(pos)))
}

// PutTime stores the wall clock and the zone offset of t.
func (b *Buffer) PutTime(pos uint, t time.Time) {
	b.Indicator[pos] = 0
	e := b.elem(pos)
	binary.LittleEndian.PutUint64(e, uint64(t.UnixNano()))
	_, off := t.Zone()
	binary.LittleEndian.PutUint32(e[8:], uint32(int32(off)))
	b.ActualLength[pos] = 12
}

func (b *Buffer) Time(pos uint) time.Time {
	e := b.elem(pos)
	ns := int64(binary.LittleEndian.Uint64(e))
	off := int32(binary.LittleEndian.Uint32(e[8:]))
	return time.Unix(0, ns).In(time.FixedZone("", int(off)))
}

// PutValue encodes a host value into the element at pos according to
// Tag. Transports use it to materialize fetched column data; the
// fixed-width integer encodings fail on overflow instead of wrapping.
func (b *Buffer) PutValue(pos uint, value interface{}) error {
	if value == nil {
		b.SetNull(pos)
		return nil
	}
	switch b.Tag {
	case TagChar, TagFixedChar, TagRowid, TagLongString, TagNumberAsString:
		switch x := value.(type) {
		case string:
			b.PutBytes(pos, []byte(x))
		case []byte:
			b.PutBytes(pos, x)
		default:
			return errgo.Newf("%s: string required, got %T", b.Tag, value)
		}
	case TagBinary, TagLongBinary:
		switch x := value.(type) {
		case []byte:
			b.PutBytes(pos, x)
		case string:
			b.PutBytes(pos, []byte(x))
		default:
			return errgo.Newf("%s: []byte required, got %T", b.Tag, value)
		}
	case TagInt32:
		n, err := int64Of(value)
		if err != nil {
			return err
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return NewError(EncodingOverflow,
				fmt.Sprintf("%d does not fit into 32 bits", n))
		}
		b.PutInt64(pos, n)
	case TagInt64, TagLongInteger, TagBoolean:
		n, err := int64Of(value)
		if err != nil {
			return err
		}
		b.PutInt64(pos, n)
	case TagFloat, TagNativeFloat:
		switch x := value.(type) {
		case float32:
			b.PutFloat64(pos, float64(x))
		case float64:
			b.PutFloat64(pos, x)
		default:
			n, err := int64Of(value)
			if err != nil {
				return err
			}
			b.PutFloat64(pos, float64(n))
		}
	case TagDateTime:
		x, ok := value.(time.Time)
		if !ok {
			return errgo.Newf("DateTime: time.Time required, got %T", value)
		}
		b.PutTime(pos, x)
	case TagInterval:
		x, ok := value.(time.Duration)
		if !ok {
			return errgo.Newf("Interval: time.Duration required, got %T", value)
		}
		b.PutInt64(pos, int64(x))
	case TagCursor:
		h, ok := value.(Stmt)
		if !ok {
			return errgo.Newf("Cursor: Stmt required, got %T", value)
		}
		if b.Handles == nil {
			b.Handles = make([]Stmt, b.Allocated)
		}
		b.Handles[pos] = h
		b.Indicator[pos] = 0
	case TagObject:
		if b.Values == nil {
			b.Values = make([]interface{}, b.Allocated)
		}
		b.Values[pos] = value
		b.Indicator[pos] = 0
	case TagNull:
		b.SetNull(pos)
	default:
		return NewError(UnsupportedType, "no encoding for tag "+b.Tag.String())
	}
	return nil
}

// Value decodes the element at pos according to Tag. Transports use it
// to read input binds; the charset-aware string decoding lives on the
// Variable, not here.
func (b *Buffer) Value(pos uint) (interface{}, error) {
	if b.IsNull(pos) {
		return nil, nil
	}
	switch b.Tag {
	case TagChar, TagFixedChar, TagRowid, TagLongString, TagNumberAsString:
		return string(b.Bytes(pos)), nil
	case TagBinary, TagLongBinary:
		out := make([]byte, len(b.Bytes(pos)))
		copy(out, b.Bytes(pos))
		return out, nil
	case TagInt32, TagInt64, TagLongInteger:
		return b.Int64(pos), nil
	case TagBoolean:
		return b.Int64(pos) > 0, nil
	case TagFloat, TagNativeFloat:
		return b.Float64(pos), nil
	case TagDateTime:
		return b.Time(pos), nil
	case TagInterval:
		return time.Duration(b.Int64(pos)), nil
	case TagCursor:
		if b.Handles == nil {
			return nil, nil
		}
		return b.Handles[pos], nil
	case TagObject:
		if b.Values == nil {
			return nil, nil
		}
		return b.Values[pos], nil
	case TagNull:
		return nil, nil
	}
	return nil, NewError(UnsupportedType, "no decoding for tag "+b.Tag.String())
}

func int64Of(value interface{}) (int64, error) {
	switch x := value.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, NewError(EncodingOverflow,
				fmt.Sprintf("%d does not fit into a signed 64-bit integer", x))
		}
		return int64(x), nil
	}
	return 0, errgo.Newf("required some kind of integer, got %T", value)
}
