package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/spf13/cast"
)

const zeroDecimal = "0.00"

// Coerce converts an evaluated value into the wire representation of a field type.
// Conversion failures degrade to a default or to the raw value; they are never errors.
func Coerce(raw any, fieldType domain.FieldType, format string) any {
	if raw == nil {
		switch {
		case fieldType.IsOptional():
			return ""
		case fieldType == domain.FieldTypeDouble:
			return zeroDecimal
		}
		return nil
	}

	switch fieldType {
	case domain.FieldTypeString, domain.FieldTypeOptionalString:
		return toWireString(raw)
	case domain.FieldTypeDouble:
		return toWireDecimal(raw)
	case domain.FieldTypeLocalDateTime, domain.FieldTypeOptionalLocalDateTime:
		if format == "" {
			return raw
		}
		t, ok := parseDateTime(raw)
		if !ok {
			return raw
		}
		return FormatDateTime(t, format)
	default:
		return raw
	}
}

func toWireString(raw any) string {
	if s, err := cast.ToStringE(raw); err == nil {
		return s
	}
	return fmt.Sprint(raw)
}

func toWireDecimal(raw any) string {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) {
		return zeroDecimal
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func parseDateTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case int, int32, int64, float32, float64:
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	case string:
		t, err := cast.ToTimeE(strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

var dateTokens = []struct {
	token  string
	render func(time.Time) string
}{
	{"yyyy", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"dd", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"HH", func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{"mm", func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{"ss", func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) }},
	{"SSS", func(t time.Time) string { return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)) }},
}

// FormatDateTime renders t with a yyyy/MM/dd/HH/mm/ss/SSS pattern. Each token
// is substituted at its first occurrence only.
func FormatDateTime(t time.Time, pattern string) string {
	out := pattern
	for _, dt := range dateTokens {
		out = strings.Replace(out, dt.token, dt.render(t), 1)
	}
	return out
}
