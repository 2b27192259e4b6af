package codec

import (
	"fmt"
	"math"
	"time"

	g "github.com/reoring/typeprovider/dsl"
)

// UnixMillis returns a schema that checks numbers on the wire and decodes
// them as milliseconds since the Unix epoch.
func UnixMillis() *g.Schema[time.Time] {
	return g.WithCodec[float64, time.Time](g.Number(), Millis{})
}

// Millis converts between epoch milliseconds and time.Time.
type Millis struct{}

func (Millis) Decode(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("codec: %v is not a finite timestamp", ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func (Millis) Encode(t time.Time) (float64, error) {
	return float64(t.UnixMilli()), nil
}
