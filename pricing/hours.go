package pricing

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// StoreTimezone is the zone opening hours are expressed in.
const StoreTimezone = "Africa/Algiers"

var storeLocation = loadStoreLocation()

func loadStoreLocation() *time.Location {
	loc, err := time.LoadLocation(StoreTimezone)
	if err != nil {
		// Algeria is UTC+1 all year.
		return time.FixedZone("CET", 60*60)
	}
	return loc
}

// StoreLocation returns the time zone used by the opening-hours gate.
func StoreLocation() *time.Location {
	return storeLocation
}

// ParseClock parses a 24h "HH:MM" value into seconds since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidConfiguration, value)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

// IsStoreClosed reports whether now falls outside the [open, close) window in
// the store's time zone. A close time earlier than the open time means the
// window runs past midnight. Equal times give an empty window, so the store
// is always closed.
func IsStoreClosed(now time.Time, openTime, closeTime string) (bool, error) {
	open, err := ParseClock(openTime)
	if err != nil {
		return false, err
	}
	closing, err := ParseClock(closeTime)
	if err != nil {
		return false, err
	}

	local := now.In(storeLocation)
	current := local.Hour()*3600 + local.Minute()*60 + local.Second()

	if closing < open {
		return !(current >= open || current < closing), nil
	}
	return !(current >= open && current < closing), nil
}
