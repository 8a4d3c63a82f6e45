package doctor

import (
	"encoding/json"
	"testing"
)

func TestDateLikeUnmarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain date", `"2025-03-15"`, "2025-03-15"},
		{"timestamp with offset", `"2025-03-15T18:30:00+05:30"`, "2025-03-15"},
		{"timestamp utc", `"2025-03-15T00:00:00Z"`, "2025-03-15"},
		{"timestamp no offset", `"2025-03-15T10:00:00"`, "2025-03-15"},
		{"space separated", `"2025-03-15 10:00:00"`, "2025-03-15"},
		{"wrapped object", `{"date": "2025-03-15"}`, "2025-03-15"},
		{"wrapped timestamp", `{"date": "2025-03-15T08:00:00Z"}`, "2025-03-15"},
		{"epoch seconds", `{"seconds": 1742016600}`, "2025-03-15"},
		{"null", `null`, ""},
		{"bare number", `1742016600`, ""},
		{"array", `["2025-03-15"]`, ""},
		{"empty object", `{}`, ""},
		{"garbage string", `"not-a-date"`, ""},
		{"empty string", `""`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d DateLike
			if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.raw, err)
			}
			if got := d.Normalize(); got != tc.want {
				t.Errorf("Normalize(%s) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestDateLikeEpochPrecedence(t *testing.T) {
	// When both fields are present, seconds wins.
	var d DateLike
	if err := json.Unmarshal([]byte(`{"date": "1999-01-01", "seconds": 1742016600}`), &d); err != nil {
		t.Fatal(err)
	}
	if got := d.Normalize(); got != "2025-03-15" {
		t.Errorf("Normalize() = %q, want 2025-03-15", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []DateLike{
		NewDate("2025-03-15"),
		NewDate("2025-03-15T18:30:00+05:30"),
		NewDateFromEpoch(1742016600),
		{kind: dateWrapped, str: "2025-03-15"},
		NewDate("garbage"),
		{},
	}
	for _, d := range inputs {
		once := d.Normalize()
		twice := NewDate(once).Normalize()
		if once != twice {
			t.Errorf("normalize not idempotent: %q then %q", once, twice)
		}
	}
}

func TestDateLikeMarshalCanonical(t *testing.T) {
	d := NewDateFromEpoch(1742016600)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2025-03-15"` {
		t.Errorf("Marshal = %s, want \"2025-03-15\"", out)
	}
}

func TestBlockedDateSetDropsInvalid(t *testing.T) {
	d := &Doctor{BlockedDates: []DateLike{
		NewDate("2025-03-15"),
		NewDate("bogus"),
		{},
	}}
	set := d.BlockedDateSet()
	if len(set) != 1 {
		t.Fatalf("got %d entries, want 1", len(set))
	}
	if _, ok := set[""]; ok {
		t.Error("empty string must never be a member of the blocked set")
	}
	if _, ok := set["2025-03-15"]; !ok {
		t.Error("valid date missing from set")
	}
}
