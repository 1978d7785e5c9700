package toml

import (
	"sort"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	// KindBoolean is a true/false value.
	KindBoolean Kind = iota + 1
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindFloat is an IEEE-754 double, including ±inf and NaN.
	KindFloat
	// KindString is a UTF-8 string.
	KindString
	// KindDateTime is one of the four TOML date/time variants.
	KindDateTime
	// KindArray is an ordered sequence of values.
	KindArray
	// KindTable is a mapping from string keys to values, iterated in
	// ascending key order.
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	}
	return "invalid"
}

// Value is a node of a TOML document tree: exactly one of boolean,
// integer, float, string, date/time, array, or table. The zero Value
// is not valid; use the constructors or Parse. A table or array owns
// its children exclusively; the tree has no cycles.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	dt    DateTime
	array []*Value
	table map[string]*Value
}

// Boolean returns a boolean value.
func Boolean(b bool) *Value { return &Value{kind: KindBoolean, b: b} }

// Integer returns an integer value.
func Integer(i int64) *Value { return &Value{kind: KindInteger, i: i} }

// Float returns a float value.
func Float(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Datetime returns a date/time value.
func Datetime(d DateTime) *Value { return &Value{kind: KindDateTime, dt: d} }

// Array returns an array value holding the given elements.
func Array(elems ...*Value) *Value {
	a := make([]*Value, 0, len(elems))
	a = append(a, elems...)
	return &Value{kind: KindArray, array: a}
}

// Table returns an empty table value.
func Table() *Value {
	return &Value{kind: KindTable, table: make(map[string]*Value)}
}

// Kind returns the type of the value.
func (v *Value) Kind() Kind { return v.kind }

// IsBoolean reports whether the value is a boolean.
func (v *Value) IsBoolean() bool { return v.kind == KindBoolean }

// IsInteger reports whether the value is an integer.
func (v *Value) IsInteger() bool { return v.kind == KindInteger }

// IsFloat reports whether the value is a float.
func (v *Value) IsFloat() bool { return v.kind == KindFloat }

// IsNumber reports whether the value is an integer or a float.
func (v *Value) IsNumber() bool { return v.kind == KindInteger || v.kind == KindFloat }

// IsString reports whether the value is a string.
func (v *Value) IsString() bool { return v.kind == KindString }

// IsDateTime reports whether the value is a date/time.
func (v *Value) IsDateTime() bool { return v.kind == KindDateTime }

// IsArray reports whether the value is an array.
func (v *Value) IsArray() bool { return v.kind == KindArray }

// IsTable reports whether the value is a table.
func (v *Value) IsTable() bool { return v.kind == KindTable }

// Bool returns the boolean payload.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBoolean {
		return false, &TypeError{Op: "Bool", Want: "boolean", Got: v.kind}
	}
	return v.b, nil
}

// Int returns the value as an int64. A float payload is truncated;
// any other kind fails.
func (v *Value) Int() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	}
	return 0, &TypeError{Op: "Int", Want: "number", Got: v.kind}
}

// Float64 returns the value as a float64. An integer payload is
// converted; any other kind fails.
func (v *Value) Float64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInteger:
		return float64(v.i), nil
	}
	return 0, &TypeError{Op: "Float64", Want: "number", Got: v.kind}
}

// Str returns the string payload.
func (v *Value) Str() (string, error) {
	if v.kind != KindString {
		return "", &TypeError{Op: "Str", Want: "string", Got: v.kind}
	}
	return v.s, nil
}

// DateTime returns the date/time payload.
func (v *Value) DateTime() (DateTime, error) {
	if v.kind != KindDateTime {
		return DateTime{}, &TypeError{Op: "DateTime", Want: "datetime", Got: v.kind}
	}
	return v.dt, nil
}

// Len returns the number of elements of an array or entries of a
// table, and 0 for scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.array)
	case KindTable:
		return len(v.table)
	}
	return 0
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.kind != KindArray {
		return nil, &TypeError{Op: "Index", Want: "array", Got: v.kind}
	}
	if i < 0 || i >= len(v.array) {
		return nil, &TypeError{Op: "Index", Want: "array index in range"}
	}
	return v.array[i], nil
}

// Get returns the value bound to key in a table, or nil if the key is
// absent or the value is not a table.
func (v *Value) Get(key string) *Value {
	if v.kind != KindTable {
		return nil
	}
	return v.table[key]
}

// Has reports whether a table binds key.
func (v *Value) Has(key string) bool {
	return v.kind == KindTable && v.table[key] != nil
}

// Keys returns the table's keys in ascending byte order, or nil for
// non-tables.
func (v *Value) Keys() []string {
	if v.kind != KindTable {
		return nil
	}
	keys := make([]string, 0, len(v.table))
	for k := range v.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Append adds an element to an array.
func (v *Value) Append(elem *Value) error {
	if v.kind != KindArray {
		return &TypeError{Op: "Append", Want: "array", Got: v.kind}
	}
	v.array = append(v.array, elem)
	return nil
}

// Insert binds key to val in a table, replacing any previous binding.
func (v *Value) Insert(key string, val *Value) error {
	if v.kind != KindTable {
		return &TypeError{Op: "Insert", Want: "table", Got: v.kind}
	}
	v.table[key] = val
	return nil
}

// Clone returns a deep copy of the value.
func (v *Value) Clone() *Value {
	c := &Value{kind: v.kind, b: v.b, i: v.i, f: v.f, s: v.s, dt: v.dt}
	switch v.kind {
	case KindArray:
		c.array = make([]*Value, len(v.array))
		for i, elem := range v.array {
			c.array[i] = elem.Clone()
		}
	case KindTable:
		c.table = make(map[string]*Value, len(v.table))
		for k, elem := range v.table {
			c.table[k] = elem.Clone()
		}
	}
	return c
}

// Equal reports semantic equality: same kind and same payload,
// element-wise for arrays and key-wise for tables. NaN floats are
// considered equal to each other so that round-tripped documents
// compare equal.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.b == other.b
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		if v.f != v.f && other.f != other.f {
			return true
		}
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindDateTime:
		return v.dt.Equal(other.dt)
	case KindArray:
		if len(v.array) != len(other.array) {
			return false
		}
		for i := range v.array {
			if !v.array[i].Equal(other.array[i]) {
				return false
			}
		}
		return true
	case KindTable:
		if len(v.table) != len(other.table) {
			return false
		}
		for k, elem := range v.table {
			if !elem.Equal(other.table[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value as TOML. Scalars render as their literal
// form, tables as a full TOML document.
func (v *Value) String() string {
	return Stringify(v, TOML, 0)
}
