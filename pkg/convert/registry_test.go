package convert

import (
	"errors"
	"testing"
)

func constConverter(s string) ConverterFunc {
	return func([]string) string { return s }
}

func TestRegistry_TierPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(StandardTier, "foo", constConverter("standard"))
	r.Register(ExternalTier, "foo", constConverter("external"))
	if got := r.Convert("foo", nil); got != "standard" {
		t.Errorf("standard entry should shadow external: got %q", got)
	}
	r.Register(BuiltinTier, "foo", constConverter("builtin"))
	if got := r.Convert("foo", nil); got != "builtin" {
		t.Errorf("builtin entry should shadow both lower tiers: got %q", got)
	}

	_, tier, ok := r.Lookup("foo")
	if !ok || tier != BuiltinTier {
		t.Errorf("Lookup(foo) = tier %v, ok %v, want %v, true", tier, ok, BuiltinTier)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(BuiltinTier, "foo", constConverter("old"))
	r.Register(BuiltinTier, "foo", constConverter("new"))
	if got := r.Convert("foo", nil); got != "new" {
		t.Errorf("Register should replace within a tier: got %q", got)
	}
}

func TestRegistry_RegisterNew(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterNew(BuiltinTier, "foo", constConverter("a")); err != nil {
		t.Errorf("first RegisterNew: %v", err)
	}
	err := r.RegisterNew(BuiltinTier, "foo", constConverter("b"))
	var dup *DuplicateRegistration
	if !errors.As(err, &dup) {
		t.Fatalf("second RegisterNew = %v, want *DuplicateRegistration", err)
	}
	if dup.Tier != BuiltinTier || dup.Name != "foo" {
		t.Errorf("duplicate = %+v, want builtin/foo", dup)
	}
	// The same name in another tier is fine.
	if err := r.RegisterNew(StandardTier, "foo", constConverter("c")); err != nil {
		t.Errorf("RegisterNew in other tier: %v", err)
	}
}

func TestRegistry_LookupMiss(t *testing.T) {
	if _, _, ok := NewRegistry().Lookup("nope"); ok {
		t.Error("Lookup on empty registry should miss")
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"foobar", nil, "^foobar"},
		{"foobar", []string{"-x", "1"}, "^foobar -x 1"},
		{"foobar", []string{"two words"}, `^foobar "two words"`},
	}
	for _, test := range tests {
		if got := Fallback(test.name, test.args); got != test.want {
			t.Errorf("Fallback(%q, %v) = %q, want %q",
				test.name, test.args, got, test.want)
		}
	}
}

func TestDefault_Roster(t *testing.T) {
	wantTier := map[string]Tier{
		"cd":    BuiltinTier,
		"test":  BuiltinTier,
		"[":     BuiltinTier,
		"echo":  StandardTier,
		"grep":  StandardTier,
		"sed":   StandardTier,
		"awk":   ExternalTier,
		"which": ExternalTier,
	}
	for name, tier := range wantTier {
		_, got, ok := Default.Lookup(name)
		if !ok {
			t.Errorf("Default has no converter for %q", name)
			continue
		}
		if got != tier {
			t.Errorf("Default tier for %q = %v, want %v", name, got, tier)
		}
	}
	if _, _, ok := Default.Lookup("foobar"); ok {
		t.Error("Default should not know foobar")
	}
}
