package models

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// CountSource records which coercion path produced an ApplicationsCount.
type CountSource int

const (
	CountNull      CountSource = iota // no value
	CountInteger                      // value was already an integer
	CountExtracted                    // first digit run taken from a string
	CountRaw                          // string without digits, kept verbatim
	CountOverflow                     // digit run beyond int64, kept verbatim
)

func (s CountSource) String() string {
	switch s {
	case CountInteger:
		return "integer"
	case CountExtracted:
		return "extracted"
	case CountRaw:
		return "raw"
	case CountOverflow:
		return "overflow"
	}
	return "null"
}

// ApplicationsCount is an integer, a raw string, or null. Only the final value
// is serialized; Source stays internal.
type ApplicationsCount struct {
	Value  int64
	Raw    string
	Source CountSource
}

func CountOf(n int64) ApplicationsCount {
	return ApplicationsCount{Value: n, Source: CountInteger}
}

// Int returns the numeric value when there is one.
func (c ApplicationsCount) Int() (int64, bool) {
	if c.Source == CountInteger || c.Source == CountExtracted {
		return c.Value, true
	}
	return 0, false
}

// Interface returns nil, an int64 or the raw string.
func (c ApplicationsCount) Interface() any {
	switch c.Source {
	case CountInteger, CountExtracted:
		return c.Value
	case CountRaw, CountOverflow:
		return c.Raw
	}
	return nil
}

func (c ApplicationsCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Interface())
}

func (c *ApplicationsCount) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = CountFromStored(v)
	return nil
}

// CountFromStored rebuilds a count from a value read back from a store. Stored
// strings were already normalized, so they are not re-parsed.
func CountFromStored(v any) ApplicationsCount {
	switch n := v.(type) {
	case nil:
		return ApplicationsCount{}
	case int:
		return CountOf(int64(n))
	case int32:
		return CountOf(int64(n))
	case int64:
		return CountOf(n)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return CountOf(int64(n))
		}
		return ApplicationsCount{Raw: strconv.FormatFloat(n, 'f', -1, 64), Source: CountRaw}
	case string:
		return ApplicationsCount{Raw: n, Source: CountRaw}
	}
	return ApplicationsCount{}
}

// DateSource records which coercion path produced a PublishedAt.
type DateSource int

const (
	DateMissing  DateSource = iota
	DateTimeForm            // parsed with DateTimeLayout
	DateOnlyForm            // parsed with DateLayout
	DateValue               // already a time value
	DateRaw                 // unparseable, kept verbatim
)

func (s DateSource) String() string {
	switch s {
	case DateTimeForm:
		return "datetime"
	case DateOnlyForm:
		return "date"
	case DateValue:
		return "value"
	case DateRaw:
		return "raw"
	}
	return "missing"
}

type PublishedAt struct {
	Time   time.Time
	Raw    string
	Source DateSource
}

func DateOf(t time.Time) PublishedAt {
	return PublishedAt{Time: t.UTC(), Source: DateValue}
}

func (p PublishedAt) Parsed() bool {
	return p.Source == DateTimeForm || p.Source == DateOnlyForm || p.Source == DateValue
}

// Interface returns nil, a time.Time or the raw string.
func (p PublishedAt) Interface() any {
	if p.Parsed() {
		return p.Time
	}
	if p.Source == DateRaw {
		return p.Raw
	}
	return nil
}

func (p PublishedAt) MarshalJSON() ([]byte, error) {
	if p.Parsed() {
		return json.Marshal(p.Time.Format(DateTimeLayout))
	}
	if p.Source == DateRaw {
		return json.Marshal(p.Raw)
	}
	return []byte("null"), nil
}

func (p *PublishedAt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch s := v.(type) {
	case nil:
		*p = PublishedAt{}
	case string:
		if t, err := time.Parse(DateTimeLayout, s); err == nil {
			*p = DateOf(t)
			return nil
		}
		*p = PublishedAt{Raw: s, Source: DateRaw}
	case float64:
		*p = PublishedAt{Raw: strconv.FormatFloat(s, 'f', -1, 64), Source: DateRaw}
	}
	return nil
}
