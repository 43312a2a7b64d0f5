package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Wire layouts for date and time values
const (
	DateLayout      = "2006-01-02"
	DateTimeLayout  = "2006-01-02 15:04"
	TimestampLayout = "2006-01-02 15:04:05"
)

var dateTimeInputLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var dateInputLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// scannedLayouts covers text timestamps returned by drivers that do not
// parse temporal columns themselves
var scannedLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999",
}

var validate = validator.New()

// IsBlank reports whether an external value counts as absent
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// Convert turns an external (JSON-decoded) value into the value stored in
// the field's column. Blank values convert to nil. Errors are plain
// messages naming the field; callers wrap them as validation errors.
func (f Field) Convert(raw any) (any, error) {
	if IsBlank(raw) {
		return nil, nil
	}

	var (
		v   any
		err error
	)
	switch f.Kind {
	case String:
		var s string
		s, err = toString(raw, false)
		if f.Upper {
			s = strings.ToUpper(s)
		}
		v = s
		if err == nil && f.maxLen() > 0 && len(s) > f.maxLen() {
			err = fmt.Errorf("must be at most %d characters", f.maxLen())
		}
	case Text:
		v, err = toString(raw, true)
	case Int:
		v, err = toInt(raw)
	case Ref:
		var id int64
		id, err = toInt(raw)
		if err == nil && id <= 0 {
			err = fmt.Errorf("must be a positive id")
		}
		v = id
	case Decimal:
		v, err = toDecimal(raw)
	case Date:
		v, err = toTime(raw, dateInputLayouts)
		if err == nil {
			t := v.(time.Time)
			v = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	case DateTime:
		v, err = toTime(raw, dateTimeInputLayouts)
	case Flag:
		v, err = toFlag(raw)
	default:
		err = fmt.Errorf("unsupported kind %s", f.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %w", f.Name, err)
	}

	if f.Rule != "" {
		if err := validate.Var(ruleValue(v), f.Rule); err != nil {
			return nil, fmt.Errorf("%s %s", f.Name, ruleMessage(err))
		}
	}
	return v, nil
}

// DefaultValue returns the field's default converted to column form, or nil
func (f Field) DefaultValue(now time.Time) (any, error) {
	var raw any
	switch {
	case f.DefaultFunc != nil:
		raw = f.DefaultFunc(now)
	case f.Default != nil:
		raw = f.Default
	default:
		return nil, nil
	}
	return f.Convert(raw)
}

func (f Field) maxLen() int {
	if f.Kind != String || f.Size < 0 {
		return 0
	}
	if f.Size > 0 {
		return f.Size
	}
	return 255
}

// Present turns a scanned column value into its external form
func (f Field) Present(v any) any {
	return presentKind(f.Kind, v)
}

func presentKind(kind Kind, v any) any {
	if v == nil {
		return nil
	}
	switch kind {
	case String, Text:
		return asString(v)
	case Int, Ref:
		if n, err := toInt(normalizeScanned(v)); err == nil {
			return n
		}
		return v
	case Decimal:
		if d, err := toDecimal(normalizeScanned(v)); err == nil {
			return json.Number(d.String())
		}
		return v
	case Date:
		if t, ok := asTime(v, dateInputLayouts); ok {
			return t.Format(DateLayout)
		}
		return asString(v)
	case DateTime:
		if t, ok := asTime(v, dateTimeInputLayouts); ok {
			return t.Format(DateTimeLayout)
		}
		return asString(v)
	case Flag:
		s := strings.ToUpper(asString(v))
		return s == "Y" || s == "1" || s == "TRUE"
	}
	return v
}

// PresentTimestamp renders an audit timestamp
func PresentTimestamp(v any) any {
	if v == nil {
		return nil
	}
	if t, ok := asTime(v, dateTimeInputLayouts); ok {
		return t.Format(TimestampLayout)
	}
	return asString(v)
}

func normalizeScanned(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case float32:
		return json.Number(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case float64:
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
	}
	return v
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(TimestampLayout)
	default:
		return fmt.Sprint(x)
	}
}

func asTime(v any, layouts []string) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string, []byte:
		s := asString(x)
		for _, set := range [][]string{layouts, scannedLayouts} {
			if t, err := toTime(s, set); err == nil {
				return t.(time.Time).UTC(), true
			}
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func toString(raw any, allowStructured bool) (string, error) {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x), nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case bool:
		return "", fmt.Errorf("must be a string")
	case map[string]any, []any:
		if !allowStructured {
			return "", fmt.Errorf("must be a string")
		}
		b, err := json.Marshal(x)
		if err != nil {
			return "", fmt.Errorf("is not serializable")
		}
		return string(b), nil
	}
	return "", fmt.Errorf("must be a string")
}

func toInt(raw any) (int64, error) {
	switch x := raw.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("must be an integer")
		}
		return int64(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		return toInt(x.String())
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.Equal(d.Truncate(0)) {
			return 0, fmt.Errorf("must be an integer")
		}
		return d.IntPart(), nil
	}
	return 0, fmt.Errorf("must be an integer")
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch x := raw.(type) {
	case decimal.Decimal:
		return x, nil
	case json.Number:
		return toDecimal(x.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, fmt.Errorf("must be a number")
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	}
	return decimal.Zero, fmt.Errorf("must be a number")
}

func toTime(raw any, layouts []string) (any, error) {
	switch x := raw.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("must be a date in %s format", layouts[0])
	}
	return nil, fmt.Errorf("must be a date in %s format", layouts[0])
}

func toFlag(raw any) (string, error) {
	switch x := raw.(type) {
	case bool:
		if x {
			return "Y", nil
		}
		return "N", nil
	case string:
		switch strings.ToUpper(strings.TrimSpace(x)) {
		case "Y", "TRUE", "1":
			return "Y", nil
		case "N", "FALSE", "0":
			return "N", nil
		}
	}
	return "", fmt.Errorf("must be true/false or Y/N")
}

// ruleValue adapts converted values to types validator understands
func ruleValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	}
	return v
}

func ruleMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "is invalid"
	}
	e := verrs[0]
	switch e.Tag() {
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param()
	case "min":
		return "must be at least " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "alphanum":
		return "must be alphanumeric"
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid"
	}
}
