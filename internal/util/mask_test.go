package util

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"owner@example.com":   "o***@e***.com",
		" Owner@Example.COM ": "o***@e***.com",
		"a@b":                 "a***@b***",
		"not-an-email":        "***",
		"":                    "",
	}
	for in, want := range cases {
		if got := MaskEmail(in); got != want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
