package format

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var (
	dateRe              = regexp.MustCompile(`^(\d\d\d\d)-(\d\d)-(\d\d)$`)
	timeRe              = regexp.MustCompile(`(?i)^(\d\d):(\d\d):(\d\d(?:\.\d+)?)(z|([+-])(\d\d)(?::?(\d\d))?)?$`)
	dateTimeSeparatorRe = regexp.MustCompile(`(?i)t|\s`)

	emailAtom = "[a-z0-9!#$%&'*+/=?^_`{|}~-]"
	emailRe   = regexp.MustCompile(`(?i)^` + emailAtom + `+(?:\.` + emailAtom + `+)*@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

	urlSchemeRe = regexp.MustCompile(`(?i)^(?:https?|wss?|ftp)://`)
	urlIPv4Re   = regexp.MustCompile(`^(?:[1-9]\d?|1\d\d|2[01]\d|22[0-3])(?:\.(?:1?\d{1,2}|2[0-4]\d|25[0-5])){2}\.(?:[1-9]\d?|1\d\d|2[0-4]\d|25[0-4])$`)
	urlHostRe   = regexp.MustCompile(`(?i)^(?:[a-z0-9\x{00a1}-\x{ffff}]+-)*[a-z0-9\x{00a1}-\x{ffff}]+(?:\.(?:[a-z0-9\x{00a1}-\x{ffff}]+-)*[a-z0-9\x{00a1}-\x{ffff}]+)*\.[a-z\x{00a1}-\x{ffff}]{2,}$`)
	urlPortRe   = regexp.MustCompile(`^\d{2,5}$`)
)

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// IsDate matches YYYY-MM-DD naming a real calendar day.
func IsDate(s string) bool {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	limit := daysInMonth[month]
	if month == 2 && IsLeapYear(year) {
		limit = 29
	}
	return day <= limit
}

// IsTime matches HH:MM:SS[.fraction][Z|±HH[:MM]]. Field ranges are not checked.
func IsTime(s string) bool { return timeRe.MatchString(s) }

// IsDateTime matches a date and a time joined by T or one whitespace character.
func IsDateTime(s string) bool {
	parts := dateTimeSeparatorRe.Split(s, -1)
	return len(parts) == 2 && IsDate(parts[0]) && IsTime(parts[1])
}

// IsEmail matches a practical subset of RFC 5322 addresses, case-insensitively.
func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsUUID matches 8-4-4-4-12 hex groups with an optional urn:uuid: prefix.
func IsUUID(s string) bool {
	// uuid.Validate also accepts braced and unhyphenated forms
	if len(s) != 36 && len(s) != 36+len("urn:uuid:") {
		return false
	}
	return uuid.Validate(s) == nil
}

// IsIPv4 matches a dotted-quad address without leading zeros.
func IsIPv4(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is4()
}

// IsIPv6 matches colon-hex addresses, including embedded IPv4 forms. Zones are rejected.
func IsIPv6(s string) bool {
	a, err := netip.ParseAddr(s)
	return err == nil && a.Is6() && a.Zone() == ""
}

// IsURL matches http, https, ws, wss and ftp URLs with an optional userinfo,
// port and path. Literal IPv4 hosts in private or loopback ranges are rejected.
func IsURL(s string) bool {
	loc := urlSchemeRe.FindStringIndex(s)
	if loc == nil {
		return false
	}
	rest := s[loc[1]:]
	if urlAuthority(rest) {
		return true
	}
	// userinfo may end at any '@'
	for i := 0; i < len(rest); i++ {
		if rest[i] != '@' || i == 0 {
			continue
		}
		if hasSpace(rest[:i]) {
			break
		}
		if urlAuthority(rest[i+1:]) {
			return true
		}
	}
	return false
}

// urlAuthority matches host[:port][/path].
func urlAuthority(s string) bool {
	hostport, path := s, ""
	if i := strings.IndexByte(s, '/'); i >= 0 {
		hostport, path = s[:i], s[i:]
	}
	if hasSpace(path) {
		return false
	}
	host := hostport
	if i := strings.IndexByte(hostport, ':'); i >= 0 {
		host = hostport[:i]
		if !urlPortRe.MatchString(hostport[i+1:]) {
			return false
		}
	}
	if urlIPv4Re.MatchString(host) {
		return !privateIPv4(host)
	}
	return urlHostRe.MatchString(host)
}

func privateIPv4(host string) bool {
	octets := strings.SplitN(host, ".", 3)
	switch octets[0] {
	case "10", "127":
		return true
	case "169":
		return octets[1] == "254"
	case "192":
		return octets[1] == "168"
	case "172":
		n, err := strconv.Atoi(octets[1])
		return err == nil && n >= 16 && n <= 31
	}
	return false
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
