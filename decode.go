package toml

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	stringutil "github.com/naoina/go-stringutil"
)

// Decoder reads and decodes TOML values from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

const defaultMaxDepth = 1000

// NewDecoder returns a new decoder that reads from r.
//
// The decoder may buffer data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
//
// Functional options can be provided to configure the decoding
// process, such as setting a maximum decoding depth with the MaxDepth
// option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the TOML document from its input and stores it in the
// value pointed to by out. If out is nil or not a pointer, Decode
// returns an error.
//
// If the input contains syntax errors, Decode returns a *ParseError.
//
// Note: This is a non-streaming implementation. It reads the entire
// reader into memory first before parsing.
func (d *Decoder) Decode(out any) error {
	if d.r == nil {
		return fmt.Errorf("toml: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}

	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return d.decodeDocument(doc, out)
}

func (d *Decoder) decodeDocument(doc *Value, v any) error {
	o := options{
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range d.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("toml: Unmarshal(non-pointer %T or nil)", v)
	}
	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(doc, rv.Elem())
}

type decodeState struct {
	depth int
}

func (ds *decodeState) mapValue(val *Value, rv reflect.Value) error { //nolint:gocyclo
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("toml: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	handled, err := ds.tryCustomUnmarshal(val, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(val, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("toml: cannot set value of type %s", rv.Type())
	}

	switch rv.Type() {
	case reflect.TypeOf(DateTime{}):
		dt, err := val.DateTime()
		if err != nil {
			return fmt.Errorf("toml: cannot unmarshal %s into DateTime", val.Kind())
		}
		rv.Set(reflect.ValueOf(dt))
		return nil
	case reflect.TypeOf(time.Time{}):
		dt, err := val.DateTime()
		if err != nil {
			return fmt.Errorf("toml: cannot unmarshal %s into time.Time", val.Kind())
		}
		t, err := dt.Time()
		if err != nil {
			return fmt.Errorf("toml: only an offset date-time can be unmarshaled into time.Time")
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	case reflect.TypeOf(Value{}):
		rv.Set(reflect.ValueOf(*val.Clone()))
		return nil
	}

	switch val.Kind() {
	case KindBoolean:
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("toml: cannot unmarshal boolean into Go value of type %s", rv.Type())
		}
		rv.SetBool(val.b)
		return nil
	case KindInteger:
		return ds.mapInt(val.i, rv)
	case KindFloat:
		return ds.mapFloat(val.f, rv)
	case KindString:
		if rv.Kind() != reflect.String {
			return fmt.Errorf("toml: cannot unmarshal string into Go value of type %s", rv.Type())
		}
		rv.SetString(val.s)
		return nil
	case KindDateTime:
		return fmt.Errorf("toml: cannot unmarshal datetime into Go value of type %s", rv.Type())
	case KindArray:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(val, rv)
		case reflect.Array:
			return ds.mapArray(val, rv)
		default:
			return fmt.Errorf("toml: cannot unmarshal array into Go value of type %s", rv.Type())
		}
	case KindTable:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(val, rv)
		case reflect.Map:
			return ds.mapMap(val, rv)
		default:
			return fmt.Errorf("toml: cannot unmarshal table into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("toml: mapping for value kind %s not implemented", val.Kind())
	}
}

// tryCustomUnmarshal attempts to use a custom unmarshaler
// (toml.Unmarshaler or encoding.TextUnmarshaler) on the given
// reflect.Value. It returns true if one was found and used, in which
// case the caller should not proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(val *Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalTOML([]byte(Stringify(val, TOML, 0))); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		if val.Kind() != KindString {
			// TextUnmarshaler is only applicable to string values.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(val.s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapInt(i int64, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(i) {
			return fmt.Errorf("toml: integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return fmt.Errorf("toml: integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(i))
		return nil
	default:
		return fmt.Errorf("toml: cannot unmarshal integer into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapFloat(f float64, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(f) {
			return fmt.Errorf("toml: float value %f overflows Go value of type %s", f, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	default:
		return fmt.Errorf("toml: cannot unmarshal float into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapSlice(a *Value, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(a.array), len(a.array))
	for i, elem := range a.array {
		if err := ds.mapValue(elem, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(a *Value, rv reflect.Value) error {
	if rv.Len() != len(a.array) {
		return fmt.Errorf("toml: cannot unmarshal array of length %d into Go array of length %d",
			len(a.array), rv.Len())
	}
	for i, elem := range a.array {
		if err := ds.mapValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(tbl *Value, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("toml: cannot unmarshal table into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		for _, k := range rv.MapKeys() {
			rv.SetMapIndex(k, reflect.Value{}) // The zero Value deletes the key
		}
	}
	elemType := mapType.Elem()
	for _, key := range tbl.Keys() {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(tbl.table[key], newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(tbl *Value, rv reflect.Value) error {
	fields := cachedFields(rv.Type())
	for _, key := range tbl.Keys() {
		if targetField := findField(fields, key); targetField != nil {
			fieldVal := rv.FieldByIndex(targetField.idx)
			if fieldVal.IsValid() && fieldVal.CanSet() {
				if err := ds.mapValue(tbl.table[key], fieldVal); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(val *Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("toml: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch val.Kind() {
	case KindBoolean:
		var b bool
		concreteVal = reflect.ValueOf(&b).Elem()
	case KindInteger:
		var i int64
		concreteVal = reflect.ValueOf(&i).Elem()
	case KindFloat:
		var f float64
		concreteVal = reflect.ValueOf(&f).Elem()
	case KindString:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case KindDateTime:
		var d DateTime
		concreteVal = reflect.ValueOf(&d).Elem()
	case KindArray:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case KindTable:
		var t map[string]any
		concreteVal = reflect.ValueOf(&t).Elem()
	default:
		return fmt.Errorf("toml: cannot determine concrete type for interface{} for kind %s", val.Kind())
	}
	if err := ds.mapValue(val, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}

// A field represents a single field in a struct.
type field struct {
	idx []int
}

// fieldCache caches a map of struct field names to their properties.
var fieldCache sync.Map // map[reflect.Type]map[string]field

// findField finds the target field in a struct's cached fields. It
// first attempts a case-sensitive match on the tag or field name,
// then a case-insensitive match, and finally the UpperCamelCase form
// of the key (so `server_name` finds the ServerName field).
func findField(fields map[string]field, keyStr string) *field {
	if f, ok := fields[keyStr]; ok {
		return &f
	}
	if f, ok := fields[strings.ToLower(keyStr)]; ok {
		return &f
	}
	if f, ok := fields[stringutil.ToUpperCamelCase(keyStr)]; ok {
		return &f
	}
	return nil
}

// cachedFields returns a map of field names to field properties for
// the given type. The result is cached to avoid repeated reflection
// work.
func cachedFields(t reflect.Type) map[string]field { //nolint:gocognit
	if f, ok := fieldCache.Load(t); ok {
		if fields, ok := f.(map[string]field); ok {
			return fields
		}
	}

	fields := make(map[string]field)
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				// Recurse into embedded structs.
				walk(sf.Type, append(idx, i))
				continue
			}
			if !sf.IsExported() {
				continue
			}

			tag := sf.Tag.Get("toml")
			if tag == "-" {
				continue
			}

			f := field{idx: append(append([]int(nil), idx...), i)}
			tagName := strings.Split(tag, ",")[0]

			if tagName != "" {
				fields[tagName] = f
			}
			fields[sf.Name] = f

			// Lower-cased entries back the case-insensitive fallback,
			// without overwriting a case-sensitive match.
			if tagName != "" {
				lowerTagName := strings.ToLower(tagName)
				if _, ok := fields[lowerTagName]; !ok {
					fields[lowerTagName] = f
				}
			}
			lowerFieldName := strings.ToLower(sf.Name)
			if _, ok := fields[lowerFieldName]; !ok {
				fields[lowerFieldName] = f
			}
		}
	}
	walk(t, nil)

	fieldCache.Store(t, fields)
	return fields
}
