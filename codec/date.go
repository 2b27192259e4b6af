package codec

import (
	"time"

	tp "github.com/reoring/typeprovider"
	g "github.com/reoring/typeprovider/dsl"
)

const dateLayout = "2006-01-02"

// Date returns a schema that checks YYYY-MM-DD strings (format "date") and
// decodes them to midnight UTC.
func Date() *g.Schema[time.Time] {
	return g.WithCodec[string, time.Time](g.Date(), CivilDate{})
}

// CivilDate converts between YYYY-MM-DD strings and time.Time.
type CivilDate struct{}

func (CivilDate) Decode(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, tp.Issues{{Code: tp.CodeInvalidFormat, Message: "invalid date", Hint: "date", Cause: err}}
	}
	return t, nil
}

// Encode drops the time of day, reading the date in t's location.
func (CivilDate) Encode(t time.Time) (string, error) {
	return t.Format(dateLayout), nil
}
