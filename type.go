// File: lixenwraith/layercfg/type.go
package layercfg

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// value resolves path and reports nil values as errors naming the path.
func (f Func) value(path []string, target string) (any, error) {
	val, err := f(path...)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, fmt.Errorf("value for path %s is nil or missing, cannot convert to %s", strings.Join(path, "."), target)
	}
	return val, nil
}

// String retrieves a string configuration value using the path.
// Scalars are formatted; a nil or missing value is the empty string.
func (f Func) String(path ...string) (string, error) {
	val, err := f(path...)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	}

	n, _ := numeric(val)
	switch n := n.(type) {
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for path %s", val, strings.Join(path, "."))
	}
}

// Int64 retrieves an int64 configuration value using the path.
// Floats are truncated; strings accept any base ParseInt understands ("0xFF").
func (f Func) Int64(path ...string) (int64, error) {
	val, err := f.value(path, "int64")
	if err != nil {
		return 0, err
	}
	return toInt64(val, strings.Join(path, "."))
}

// numeric widens any Go number or bool to one of int64, uint64 or float64.
// Parsed trees only hold int64 and float64; the rest comes from overrides.
func numeric(val any) (any, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Bool:
		if rv.Bool() {
			return int64(1), true
		}
		return int64(0), true
	default:
		return nil, false
	}
}

func toInt64(val any, p string) (int64, error) {
	if s, ok := val.(string); ok {
		i, perr := strconv.ParseInt(s, 0, 64)
		if perr == nil {
			return i, nil
		}
		if fv, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int64(fv), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", s, p, perr)
	}

	n, ok := numeric(val)
	if !ok {
		return 0, fmt.Errorf("cannot convert type %T to int64 for path %s", val, p)
	}
	switch n := n.(type) {
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("cannot convert unsigned integer %d (type %T) to int64 for path %s: overflow", n, val, p)
		}
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return n.(int64), nil
	}
}

// Bool retrieves a boolean configuration value using the path.
// Numbers are true when non-zero; strings go through strconv.ParseBool.
func (f Func) Bool(path ...string) (bool, error) {
	val, err := f.value(path, "bool")
	if err != nil {
		return false, err
	}
	p := strings.Join(path, ".")

	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", v, p, perr)
		}
		return b, nil
	}

	n, ok := numeric(val)
	if !ok {
		return false, fmt.Errorf("cannot convert type %T to bool for path %s", val, p)
	}
	switch n := n.(type) {
	case uint64:
		return n != 0, nil
	case float64:
		return n != 0, nil
	default:
		return n.(int64) != 0, nil
	}
}

// Float64 retrieves a float64 configuration value using the path.
func (f Func) Float64(path ...string) (float64, error) {
	val, err := f.value(path, "float64")
	if err != nil {
		return 0, err
	}
	p := strings.Join(path, ".")

	if s, ok := val.(string); ok {
		fv, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", s, p, perr)
		}
		return fv, nil
	}

	n, ok := numeric(val)
	if !ok {
		return 0, fmt.Errorf("cannot convert type %T to float64 for path %s", val, p)
	}
	switch n := n.(type) {
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return float64(n.(int64)), nil
	}
}

// Duration retrieves a time.Duration from a duration string ("1m30s") or an
// integer number of nanoseconds.
func (f Func) Duration(path ...string) (time.Duration, error) {
	val, err := f.value(path, "duration")
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return 0, fmt.Errorf("cannot convert string %q to duration for path %s: %w", v, strings.Join(path, "."), perr)
		}
		return d, nil
	}

	n, err := toInt64(val, strings.Join(path, "."))
	if err != nil {
		return 0, err
	}
	return time.Duration(n), nil
}
