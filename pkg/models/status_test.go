package models

import "testing"

func TestTranslateStatusDaily(t *testing.T) {
	cases := []struct {
		code int32
		want string
	}{
		{2, "in processing"},
		{3, "failed"},
		{4, "succeeded"},
		{8, "failed - our fault"},
		{10, "cancelled"},
		{11, "expired"},
		{12, "zeroed out"},
		{13, "cancelled before bank details"},
	}
	for _, c := range cases {
		if got := TranslateStatus(c.code, DailyStatuses); got != c.want {
			t.Errorf("code %d: expected %q, got %q", c.code, c.want, got)
		}
	}
}

func TestTranslateStatusUnknownCodes(t *testing.T) {
	for _, code := range []int32{0, 1, 5, 9, 14, 99, -3} {
		if got := TranslateStatus(code, DailyStatuses); got != "" {
			t.Errorf("code %d: expected empty label, got %q", code, got)
		}
		if got := TranslateStatus(code, AdHocStatuses); got != "" {
			t.Errorf("code %d (ad-hoc): expected empty label, got %q", code, got)
		}
	}
}

func TestStatusTablesDisagreeOnlyOnCode12(t *testing.T) {
	if DailyStatuses[12] != "zeroed out" || AdHocStatuses[12] != "reversed" {
		t.Fatalf("code 12 variants changed: daily=%q adhoc=%q", DailyStatuses[12], AdHocStatuses[12])
	}
	for code, want := range DailyStatuses {
		if code == 12 {
			continue
		}
		if got := AdHocStatuses[code]; got != want {
			t.Errorf("code %d: tables diverge (%q vs %q)", code, want, got)
		}
	}
}
