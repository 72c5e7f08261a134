// Package bind decodes and validates a submitted HTML form into a struct.
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n := config.Int("MAX_BODY_BYTES", 1<<20)
	if n <= 0 {
		return 1 << 20
	}
	return int64(n)
}

// Form parses the url-encoded (or multipart) body of r into dest, a pointer
// to a struct whose fields carry `form:"name"` tags, then runs validation.
// Values are trimmed; a blank value leaves a *string field nil.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed or too large.
func Form(r *http.Request, dest interface{}) (errs validate.Errors, err error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBodyBytes())
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	if err = Values(r.PostForm, dest); err != nil {
		return nil, err
	}

	return validate.Struct(dest), nil
}

// Values copies form values into dest without validating.
func Values(values map[string][]string, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() || field.Tag.Get("form") == "-" {
			continue
		}
		vals, ok := values[validate.FieldName(field)]
		if !ok || len(vals) == 0 {
			continue
		}
		raw := strings.TrimSpace(vals[0])
		if err := set(rv.Field(i), raw); err != nil {
			return fmt.Errorf("bind: field %s: %w", field.Name, err)
		}
	}
	return nil
}

func set(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Ptr:
		if raw == "" {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := set(elem.Elem(), raw); err != nil {
			return err
		}
		v.Set(elem)
	case reflect.Bool:
		v.SetBool(raw == "on" || raw == "1" || strings.EqualFold(raw, "true"))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}
