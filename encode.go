package toml

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"time"
)

// Encoder writes TOML (or JSON/YAML, see WithFormat) values to an
// output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the encoding of v to the stream.
func (e *Encoder) Encode(v any) error {
	o := options{}
	for _, opt := range e.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	val, err := ValueOf(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write([]byte(Stringify(val, o.format, o.indent)))
	return err
}

// ValueOf converts a Go value into a document Value. Booleans,
// integer and float widths, strings, time.Time, DateTime, slices,
// arrays, string-keyed maps, and structs are supported; types
// implementing Marshaler are invoked instead.
func ValueOf(v any) (*Value, error) {
	return marshalValue(reflect.ValueOf(v))
}

func marshalCustom(v reflect.Value, m Marshaler) (*Value, error) {
	b, err := m.MarshalTOML()
	if err != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: err}
	}

	// The user's marshaled output is a single TOML value; parse it
	// back so it can be grafted into the tree being built.
	p := &parser{scanner: scanner{data: string(b)}}
	val, err := p.parseValue()
	if err == nil {
		err = p.skipTrivia()
	}
	if err == nil && !p.eof() {
		err = fmt.Errorf("trailing content after value")
	}
	if err != nil {
		return nil, &MarshalerError{
			Type: v.Type(),
			Err:  fmt.Errorf("invalid TOML output: %w", err),
		}
	}
	return val, nil
}

// parseTag splits a toml struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	options := make(map[string]bool)
	for _, part := range parts[1:] {
		options[strings.TrimSpace(part)] = true
	}
	return name, options
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func marshalValue(v reflect.Value) (*Value, error) { //nolint:gocyclo
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return nil, fmt.Errorf("toml: cannot marshal a nil value (TOML has no null)")
	}

	// Check for a custom Marshaler on the value itself and on a
	// pointer to it, to handle both receiver forms.
	if v.Type().NumMethod() > 0 && v.CanInterface() {
		if m, ok := v.Interface().(Marshaler); ok {
			return marshalCustom(v, m)
		}
	}
	if v.Kind() != reflect.Pointer {
		var pv reflect.Value
		if v.CanAddr() {
			pv = v.Addr()
		} else {
			pv = reflect.New(v.Type())
			pv.Elem().Set(v)
		}
		if pv.Type().NumMethod() > 0 && pv.CanInterface() {
			if m, ok := pv.Interface().(Marshaler); ok {
				return marshalCustom(pv, m)
			}
		}
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("toml: cannot marshal a nil value (TOML has no null)")
		}
		v = v.Elem()
	}

	switch t := v.Interface().(type) {
	case Value:
		return t.Clone(), nil
	case DateTime:
		return Datetime(t), nil
	case time.Time:
		return Datetime(FromTime(t)), nil
	}

	switch v.Kind() {
	case reflect.String:
		return String(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		val := v.Uint()
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("toml: cannot marshal uint64 %d into TOML (overflows int64)", val)
		}
		return Integer(int64(val)), nil
	case reflect.Float32, reflect.Float64:
		return Float(v.Float()), nil
	case reflect.Bool:
		return Boolean(v.Bool()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return Array(), nil
		}
		arr := Array()
		for i := 0; i < v.Len(); i++ {
			elem, err := marshalValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			arr.array = append(arr.array, elem)
		}
		return arr, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toml: map key type must be a string, got %s", v.Type().Key())
		}
		tbl := Table()
		for _, key := range v.MapKeys() {
			elem, err := marshalValue(v.MapIndex(key))
			if err != nil {
				return nil, err
			}
			tbl.table[key.String()] = elem
		}
		return tbl, nil
	case reflect.Struct:
		return marshalStruct(v)
	default:
		return nil, fmt.Errorf("toml: unsupported type for marshaling: %s", v.Type())
	}
}

func marshalStruct(v reflect.Value) (*Value, error) {
	tbl := Table()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tagName, opts := parseTag(field.Tag.Get("toml"))
		if tagName == "-" {
			continue
		}
		if opts["omitempty"] && isEmptyValue(fieldValue) {
			continue
		}
		// A nil pointer field has no TOML representation; leave the
		// key out entirely.
		if (fieldValue.Kind() == reflect.Pointer || fieldValue.Kind() == reflect.Interface) &&
			fieldValue.IsNil() {
			continue
		}

		key := field.Name
		if tagName != "" {
			key = tagName
		}

		elem, err := marshalValue(fieldValue)
		if err != nil {
			return nil, err
		}
		tbl.table[key] = elem
	}
	return tbl, nil
}
