package format

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDateProperties checks the date predicate against the calendar.
func TestDateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: a formatted day is valid exactly when time.Date does not normalize it
	properties.Property("date agrees with calendar", prop.ForAll(
		func(y, m, d int) bool {
			s := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
			valid := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Day() == d
			return IsDate(s) == valid
		},
		gen.IntRange(1, 9999),
		gen.IntRange(1, 12),
		gen.IntRange(1, 31),
	))

	// Property: February 29th exists only in leap years
	properties.Property("feb 29 follows leap rule", prop.ForAll(
		func(y int) bool {
			return IsDate(fmt.Sprintf("%04d-02-29", y)) == IsLeapYear(y)
		},
		gen.IntRange(0, 9999),
	))

	// Property: out-of-range months never pass
	properties.Property("month range", prop.ForAll(
		func(y, m int) bool {
			return !IsDate(fmt.Sprintf("%04d-%02d-01", y, m))
		},
		gen.IntRange(0, 9999),
		gen.IntRange(13, 99),
	))

	properties.TestingRun(t)
}

func TestAddressProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("dotted quads are ipv4", prop.ForAll(
		func(a, b, c, d int) bool {
			s := fmt.Sprintf("%d.%d.%d.%d", a, b, c, d)
			return IsIPv4(s) && !IsIPv6(s)
		},
		gen.IntRange(0, 255),
		gen.IntRange(0, 255),
		gen.IntRange(0, 255),
		gen.IntRange(0, 255),
	))

	properties.Property("loopback urls are rejected", prop.ForAll(
		func(b, c, d int) bool {
			return !IsURL(fmt.Sprintf("http://127.%d.%d.%d/", b, c, d))
		},
		gen.IntRange(0, 255),
		gen.IntRange(0, 255),
		gen.IntRange(1, 254),
	))

	properties.TestingRun(t)
}
