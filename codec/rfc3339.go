package codec

import (
	"time"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

// TimeRFC3339 returns a schema that checks RFC3339 strings on the wire and
// decodes them to time.Time.
func TimeRFC3339() *g.Schema[time.Time] {
	return g.WithCodec[string, time.Time](g.String(g.StringOptions{Format: "date-time"}), RFC3339{})
}

// RFC3339 converts between RFC3339 strings and time.Time.
type RFC3339 struct{}

func (RFC3339) Decode(s string) (time.Time, error) {
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, tp.Issues{{Code: tp.CodeInvalidFormat, Message: "invalid RFC3339 time", Hint: "date-time", Cause: err}}
	}
	return t, nil
}

func (RFC3339) Encode(t time.Time) (string, error) {
	return formatRFC3339Canonical(t), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
