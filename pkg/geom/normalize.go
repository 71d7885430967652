package geom

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	errs "github.com/matzehuels/stowage/pkg/errors"
)

// Float coerces v to a finite float64.
//
// All Go integer, unsigned and float kinds are accepted, as well as strings
// (including json.Number) holding a decimal number. The second result is
// false for nil, non-numeric values, NaN and infinities, in which case the
// first result is 0.
func Float(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	var f float64
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParsePosition converts raw into a Point3. It never fails; see
// [NormalizePosition] for the accepted shapes.
func ParsePosition(raw any) Point3 {
	p, _ := NormalizePosition(raw)
	return p
}

// NormalizePosition converts raw into a Point3 and reports coerced fields.
//
//   - nil yields the origin.
//   - A slice or array with at least three elements yields its first three
//     elements as X, Y, Z. Shorter sequences yield the origin.
//   - A map yields each component from its named key ("x", "y", "z") when
//     present and non-nil, else from its indexed key (0, 1, 2 or "0", "1", "2").
//   - Point3 and *Point3 are returned as-is.
//   - Anything else yields the origin.
//
// Non-numeric components become 0. The returned point is always usable; the
// error only describes what was substituted and carries code INVALID_INPUT.
func NormalizePosition(raw any) (Point3, error) {
	f := errs.NewFields("position")
	p := parsePoint(raw, f)
	return p, f.Err()
}

func parsePoint(raw any, f *errs.Fields) Point3 {
	switch v := raw.(type) {
	case nil:
		return Point3{}
	case Point3:
		return v
	case *Point3:
		if v == nil {
			return Point3{}
		}
		return *v
	}

	rv, ok := deref(raw)
	if !ok {
		return Point3{}
	}

	var comps [3]any
	var present [3]bool
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() < 3 {
			f.Add("position", "sequence has %d elements, want 3", rv.Len())
			return Point3{}
		}
		for i := range comps {
			comps[i], present[i] = rv.Index(i).Interface(), true
		}
	case reflect.Map:
		for i, name := range [3]string{"x", "y", "z"} {
			comps[i], present[i] = lookup(rv, i, name)
		}
	default:
		f.Add("position", "unsupported type %T", raw)
		return Point3{}
	}

	var out [3]float64
	for i, name := range [3]string{"x", "y", "z"} {
		out[i], _ = component(comps[i], present[i], name, 0, f)
	}
	return Point3{X: out[0], Y: out[1], Z: out[2]}
}

// ParseDims converts raw into Dims, substituting the matching field of
// fallback for any missing, non-numeric or non-positive dimension.
// See [NormalizeDims] for the accepted shapes.
func ParseDims(raw any, fallback Dims) Dims {
	d, _ := NormalizeDims(raw, fallback)
	return d
}

// NormalizeDims converts raw into Dims and reports substituted fields.
//
// Accepted shapes are Dims, *Dims, a sequence [length, width, height], and a
// map keyed by "length"/"width"/"height", "l"/"w"/"h", or 0/1/2. A dimension
// that is missing, non-numeric or ≤ 0 is replaced by the same field of
// fallback.
func NormalizeDims(raw any, fallback Dims) (Dims, error) {
	f := errs.NewFields("dimensions")
	var comps [3]any
	var present [3]bool

	switch v := raw.(type) {
	case nil:
		f.Add("dimensions", "missing")
		return fallback, f.Err()
	case Dims:
		comps = [3]any{v.Length, v.Width, v.Height}
		present = [3]bool{true, true, true}
	case *Dims:
		if v == nil {
			f.Add("dimensions", "missing")
			return fallback, f.Err()
		}
		comps = [3]any{v.Length, v.Width, v.Height}
		present = [3]bool{true, true, true}
	default:
		rv, ok := deref(raw)
		if !ok {
			f.Add("dimensions", "missing")
			return fallback, f.Err()
		}
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < 3 && i < rv.Len(); i++ {
				comps[i], present[i] = rv.Index(i).Interface(), true
			}
		case reflect.Map:
			long := [3]string{"length", "width", "height"}
			short := [3]string{"l", "w", "h"}
			for i := range comps {
				if comps[i], present[i] = lookup(rv, -1, long[i]); !present[i] {
					comps[i], present[i] = lookup(rv, i, short[i])
				}
			}
		default:
			f.Add("dimensions", "unsupported type %T", raw)
			return fallback, f.Err()
		}
	}

	fb := [3]float64{fallback.Length, fallback.Width, fallback.Height}
	names := [3]string{"length", "width", "height"}
	var out [3]float64
	for i := range out {
		v, ok := component(comps[i], present[i], names[i], fb[i], f)
		if ok && v <= 0 {
			f.Add(names[i], "non-positive value %v", v)
			v = fb[i]
		}
		out[i] = v
	}
	return Dims{Length: out[0], Width: out[1], Height: out[2]}, f.Err()
}

// component coerces one field. It records a note and returns def, false
// when the field is missing or non-numeric.
func component(v any, present bool, name string, def float64, f *errs.Fields) (float64, bool) {
	if !present {
		f.Add(name, "missing")
		return def, false
	}
	n, ok := Float(v)
	if !ok {
		f.Add(name, "non-numeric value %v", v)
		return def, false
	}
	return n, true
}

// lookup reads a map component by name, then by index. A negative index
// disables the indexed lookup. Present keys holding nil count as absent.
func lookup(m reflect.Value, index int, name string) (any, bool) {
	if v, ok := mapGet(m, name); ok {
		return v, true
	}
	if index < 0 {
		return nil, false
	}
	if v, ok := mapGet(m, index); ok {
		return v, true
	}
	return mapGet(m, strconv.Itoa(index))
}

func mapGet(m reflect.Value, key any) (any, bool) {
	kt := m.Type().Key()
	kv := reflect.ValueOf(key)
	if !kv.Type().AssignableTo(kt) {
		// Only convert within the same family: int→string would yield a rune.
		if !kv.Type().ConvertibleTo(kt) || isInt(kv.Kind()) != isInt(kt.Kind()) {
			return nil, false
		}
		kv = kv.Convert(kt)
	}
	v := m.MapIndex(kv)
	if !v.IsValid() {
		return nil, false
	}
	out := v.Interface()
	if out == nil {
		return nil, false
	}
	return out, true
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// deref follows pointers and interfaces. It reports false for nil.
func deref(raw any) (reflect.Value, bool) {
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}
