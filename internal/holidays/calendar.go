// Package holidays provides the seasonal lookup the suggestion engine
// consults: which holidays are coming up, and which circles they are
// relevant to.
package holidays

import (
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// Kind buckets holidays by what kind of reaching-out they invite.
type Kind string

const (
	KindMajor     Kind = "major"     // Everyone: New Year, Christmas
	KindGratitude Kind = "gratitude" // Thank the people who matter
	KindCultural  Kind = "cultural"  // Friendship day and similar
	KindSeasonal  Kind = "seasonal"  // Halloween, solstice-adjacent fun
	KindRomantic  Kind = "romantic"  // Partner only
	KindFamily    Kind = "family"    // Mother's/Father's day
)

// Holiday is a fixed or rule-based annual date.
type Holiday struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	LeadDays int    `json:"lead_days"` // how far ahead it becomes suggestible

	// Fixed-date holidays use Month/Day. Rule-based ones (nth weekday of
	// a month) use Month/Weekday/Nth with Day zero.
	Month   time.Month   `json:"month"`
	Day     int          `json:"day,omitempty"`
	Weekday time.Weekday `json:"weekday,omitempty"`
	Nth     int          `json:"nth,omitempty"`
}

// Upcoming pairs a holiday with its next concrete date.
type Upcoming struct {
	Holiday
	Date      time.Time `json:"date"`
	DaysUntil int       `json:"days_until"`
}

// calendar is the built-in holiday table. Movable feasts that need a full
// lunisolar computation are deliberately absent.
var calendar = []Holiday{
	{Name: "New Year's Day", Kind: KindMajor, Month: time.January, Day: 1, LeadDays: 5},
	{Name: "Valentine's Day", Kind: KindRomantic, Month: time.February, Day: 14, LeadDays: 7},
	{Name: "Mother's Day", Kind: KindFamily, Month: time.May, Weekday: time.Sunday, Nth: 2, LeadDays: 7},
	{Name: "Father's Day", Kind: KindFamily, Month: time.June, Weekday: time.Sunday, Nth: 3, LeadDays: 7},
	{Name: "Friendship Day", Kind: KindCultural, Month: time.July, Day: 30, LeadDays: 5},
	{Name: "Halloween", Kind: KindSeasonal, Month: time.October, Day: 31, LeadDays: 7},
	{Name: "Thanksgiving", Kind: KindGratitude, Month: time.November, Weekday: time.Thursday, Nth: 4, LeadDays: 10},
	{Name: "Christmas", Kind: KindMajor, Month: time.December, Day: 25, LeadDays: 14},
	{Name: "New Year's Eve", Kind: KindMajor, Month: time.December, Day: 31, LeadDays: 5},
}

// Calendar is the lookup interface rules consume, so tests can substitute a
// fixed set of dates.
type Calendar interface {
	UpcomingHolidays(now time.Time, leadDays int) []Upcoming
}

// BuiltIn returns the default calendar.
func BuiltIn() Calendar { return builtIn{} }

type builtIn struct{}

func (builtIn) UpcomingHolidays(now time.Time, leadDays int) []Upcoming {
	return upcoming(calendar, now, leadDays)
}

func upcoming(table []Holiday, now time.Time, leadDays int) []Upcoming {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out []Upcoming
	for _, h := range table {
		date := h.occurrence(now.Year(), now.Location())
		if date.Before(today) {
			date = h.occurrence(now.Year()+1, now.Location())
		}
		days := int(date.Sub(today).Hours() / 24)

		// Per-holiday lead window caps the caller's window: Christmas
		// can be suggested two weeks out, Friendship Day cannot.
		window := leadDays
		if h.LeadDays < window {
			window = h.LeadDays
		}
		if days <= window {
			out = append(out, Upcoming{Holiday: h, Date: date, DaysUntil: days})
		}
	}
	return out
}

// occurrence resolves the holiday's concrete date in a given year.
func (h Holiday) occurrence(year int, loc *time.Location) time.Time {
	if h.Day > 0 {
		return time.Date(year, h.Month, h.Day, 0, 0, 0, 0, loc)
	}
	// Nth weekday of the month.
	first := time.Date(year, h.Month, 1, 0, 0, 0, 0, loc)
	offset := (int(h.Weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (h.Nth-1)*7
	return time.Date(year, h.Month, day, 0, 0, 0, 0, loc)
}

// RelevantTo reports whether a holiday of this kind is worth a nudge for a
// relationship of the given tier and type.
func (h Holiday) RelevantTo(tier core.Tier, relType core.RelationshipType) bool {
	switch h.Kind {
	case KindMajor:
		return true
	case KindGratitude:
		if tier == core.TierCommunity {
			return relType == core.RelTypeMentor
		}
		return true
	case KindCultural:
		return relType == core.RelTypeFriend || relType == "" && tier != core.TierCommunity
	case KindSeasonal:
		return tier != core.TierCommunity
	case KindRomantic:
		return relType == core.RelTypePartner
	case KindFamily:
		return relType == core.RelTypeFamily || relType == core.RelTypePartner
	}
	return false
}
