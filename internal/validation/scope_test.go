package validation

import (
	"strings"
	"testing"
)

func TestValidSquareScope_Valid(t *testing.T) {
	valids := []string{
		"A",
		"APPOINTMENTS_READ",
		"APPOINTMENTS_ALL_WRITE",
		"MERCHANT_PROFILE_READ",
		"ITEMS_READ",
		// 64 chars exactos
		"A" + strings.Repeat("B", 62) + "C",
	}
	for _, v := range valids {
		if !ValidSquareScope(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
}

func TestValidSquareScope_Invalid(t *testing.T) {
	invalids := []string{
		"",                 // vacío
		"_LEAD",            // empieza con no-alnum
		"TRAIL_",           // termina con no-alnum
		"BAD SPACE",        //
		"lowercase_read",   // minúsculas
		"SEMI;COLON",       //
		"APPOINTMENTS-ALL", // guión
		strings.Repeat("A", 65),
	}
	for _, v := range invalids {
		if ValidSquareScope(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestFilterSquareScopes(t *testing.T) {
	in := []string{"APPOINTMENTS_READ", "bad scope", "ITEMS_READ", ""}
	got := FilterSquareScopes(in)
	if len(got) != 2 || got[0] != "APPOINTMENTS_READ" || got[1] != "ITEMS_READ" {
		t.Fatalf("unexpected filter result: %v", got)
	}
	if FilterSquareScopes([]string{";"}) != nil {
		t.Fatalf("expected nil when nothing survives")
	}
}
