package util

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Acme   Corp  ", "acme-corp"},
		{"Joe's Diner & Grill", "joes-diner-grill"},
		{"CAFÉ 24/7", "caf-24-7"},
		{"---", ""},
		{"", ""},
		{"日本料理", ""},
		{"a_b.c/d", "a-b-c-d"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
