package bind

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	perr "lectern/internal/platform/errors"
)

// Query decodes URL query parameters into T using `query` struct tags, then validates T
// Supported field kinds: string, bool, signed ints, floats and time.Duration
// Values are trimmed; an absent or blank parameter leaves the zero value
func Query[T any](r *http.Request) (T, error) {
	var zero T
	var dst T
	if err := decodeValues(r.URL.Query(), &dst); err != nil {
		return zero, err
	}
	if err := Get().Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func decodeValues(q url.Values, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("query")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s is not a valid %s", name, kindLabel(sf.Type)), name)
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func setField(f reflect.Value, raw string) error {
	if f.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		f.SetInt(int64(d))
		return nil
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetFloat(n)
	}
	return nil
}

func kindLabel(t reflect.Type) string {
	if t == durationType {
		return "duration"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "value"
	}
}
