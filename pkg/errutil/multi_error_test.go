package errutil

import (
	"errors"
	"testing"
)

func TestMulti(t *testing.T) {
	foo := errors.New("foo")
	bar := errors.New("bar")

	if err := Multi(); err != nil {
		t.Errorf("Multi() = %v, want nil", err)
	}
	if err := Multi(nil, nil); err != nil {
		t.Errorf("Multi(nil, nil) = %v, want nil", err)
	}
	if err := Multi(nil, foo, nil); err != foo {
		t.Errorf("Multi(nil, foo, nil) = %v, want foo itself", err)
	}
	if got := Multi(foo, bar).Error(); got != "multiple errors: foo; bar" {
		t.Errorf("Multi(foo, bar) = %q", got)
	}
	// Nested Multi errors flatten.
	got := Multi(Multi(foo, bar), errors.New("baz")).Error()
	if got != "multiple errors: foo; bar; baz" {
		t.Errorf("nested Multi = %q", got)
	}
}

func TestErrors(t *testing.T) {
	foo := errors.New("foo")
	bar := errors.New("bar")

	if got := Errors(nil); got != nil {
		t.Errorf("Errors(nil) = %v, want nil", got)
	}
	if got := Errors(foo); got != nil {
		t.Errorf("Errors(foo) = %v, want nil", got)
	}
	got := Errors(Multi(foo, bar))
	if len(got) != 2 || got[0] != foo || got[1] != bar {
		t.Errorf("Errors(Multi(foo, bar)) = %v, want [foo bar]", got)
	}
}
