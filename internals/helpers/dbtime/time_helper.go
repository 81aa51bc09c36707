package dbtime

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"afrikticket_backend/internals/configs"
)

const LocTimezone = "request_loc" // *time.Location cached per request

var ErrInvalidDate = fiber.NewError(fiber.StatusBadRequest, "Invalid date, use RFC3339 or YYYY-MM-DD HH:MM")

// GetLocation picks the caller's timezone:
// 1) Locals cache
// 2) X-Timezone header or ?tz= (IANA name)
// 3) APP_TIMEZONE, default Africa/Abidjan
// 4) UTC
func GetLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if loc, ok := c.Locals(LocTimezone).(*time.Location); ok && loc != nil {
			return loc
		}
		for _, name := range []string{c.Get("X-Timezone"), c.Query("tz")} {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			if loc, err := time.LoadLocation(name); err == nil {
				c.Locals(LocTimezone, loc)
				return loc
			}
		}
	}
	if loc, err := time.LoadLocation(configs.GetEnv("APP_TIMEZONE", "Africa/Abidjan")); err == nil {
		if c != nil {
			c.Locals(LocTimezone, loc)
		}
		return loc
	}
	return time.UTC
}

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime accepts RFC3339 or a local wall-clock time interpreted in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseDateTimePtr is ParseDateTime for optional fields.
func ParseDateTimePtr(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// In converts for display; the zero time stays zero.
func In(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() || loc == nil {
		return t
	}
	return t.In(loc)
}

func IsInvalidDate(err error) bool { return errors.Is(err, ErrInvalidDate) }
