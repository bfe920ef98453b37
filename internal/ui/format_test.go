package ui

import "testing"

func TestFormatTime(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{7.9, "0:07"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.seconds); got != tc.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestLocalizationFallback(t *testing.T) {
	loc := NewLocalization("de")
	if got := loc.T(KeyReciters); got != "القراء" {
		t.Errorf("unknown language should fall back to Arabic, got %q", got)
	}
	en := NewLocalization("en")
	if got := en.T(KeyReciters); got != "Reciters" {
		t.Errorf("T(KeyReciters) = %q", got)
	}
	if got := en.T("bogus_key"); got != "bogus_key" {
		t.Errorf("unknown key should return the key, got %q", got)
	}
}
