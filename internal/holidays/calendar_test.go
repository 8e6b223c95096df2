package holidays

import (
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

func TestUpcomingHolidays_FixedDate(t *testing.T) {
	// Dec 20: Christmas (lead 14) is 5 days out, New Year's Eve (lead 5)
	// is 11 days out and outside its own lead window.
	now := time.Date(2026, 12, 20, 9, 0, 0, 0, time.UTC)

	got := BuiltIn().UpcomingHolidays(now, 14)

	names := make(map[string]int)
	for _, u := range got {
		names[u.Name] = u.DaysUntil
	}
	if days, ok := names["Christmas"]; !ok || days != 5 {
		t.Errorf("Christmas: got %v (present=%v), want 5 days", days, ok)
	}
	if _, ok := names["New Year's Eve"]; ok {
		t.Error("New Year's Eve should be capped by its 5-day lead window")
	}
}

func TestUpcomingHolidays_YearRollover(t *testing.T) {
	now := time.Date(2026, 12, 29, 9, 0, 0, 0, time.UTC)

	got := BuiltIn().UpcomingHolidays(now, 5)
	found := false
	for _, u := range got {
		if u.Name == "New Year's Day" {
			found = true
			if u.Date.Year() != 2027 {
				t.Errorf("New Year's Day resolved to %d, want 2027", u.Date.Year())
			}
			if u.DaysUntil != 3 {
				t.Errorf("DaysUntil = %d, want 3", u.DaysUntil)
			}
		}
	}
	if !found {
		t.Error("New Year's Day should appear across the year boundary")
	}
}

func TestUpcomingHolidays_NthWeekday(t *testing.T) {
	// Thanksgiving 2026 is Thursday, November 26.
	now := time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC)

	got := BuiltIn().UpcomingHolidays(now, 10)
	for _, u := range got {
		if u.Name == "Thanksgiving" {
			want := time.Date(2026, 11, 26, 0, 0, 0, 0, time.UTC)
			if !u.Date.Equal(want) {
				t.Errorf("Thanksgiving = %v, want %v", u.Date, want)
			}
			return
		}
	}
	t.Error("Thanksgiving not found in its lead window")
}

func TestUpcomingHolidays_SameDay(t *testing.T) {
	now := time.Date(2026, 10, 31, 18, 0, 0, 0, time.UTC)

	got := BuiltIn().UpcomingHolidays(now, 7)
	for _, u := range got {
		if u.Name == "Halloween" {
			if u.DaysUntil != 0 {
				t.Errorf("same-day DaysUntil = %d, want 0", u.DaysUntil)
			}
			return
		}
	}
	t.Error("same-day holiday should still be upcoming")
}

func TestRelevantTo(t *testing.T) {
	cases := []struct {
		kind    Kind
		tier    core.Tier
		relType core.RelationshipType
		want    bool
	}{
		{KindMajor, core.TierCommunity, "", true},
		{KindRomantic, core.TierInner, core.RelTypePartner, true},
		{KindRomantic, core.TierInner, core.RelTypeFriend, false},
		{KindGratitude, core.TierClose, core.RelTypeColleague, true},
		{KindGratitude, core.TierCommunity, core.RelTypeColleague, false},
		{KindGratitude, core.TierCommunity, core.RelTypeMentor, true},
		{KindFamily, core.TierInner, core.RelTypeFamily, true},
		{KindFamily, core.TierInner, core.RelTypeFriend, false},
		{KindSeasonal, core.TierCommunity, core.RelTypeFriend, false},
		{KindSeasonal, core.TierClose, "", true},
		{KindCultural, core.TierCommunity, core.RelTypeFriend, true},
	}

	for _, tc := range cases {
		h := Holiday{Kind: tc.kind}
		if got := h.RelevantTo(tc.tier, tc.relType); got != tc.want {
			t.Errorf("RelevantTo(%s, %s, %s) = %v, want %v", tc.kind, tc.tier, tc.relType, got, tc.want)
		}
	}
}
