package esierr

import (
	"errors"
	"testing"
)

func TestInputErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &InputError{Kind: DimensionMismatch, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("InputError should unwrap to its cause")
	}
	if err.Error() == "" {
		t.Fatal("Error() should not be empty")
	}
}

func TestNewfFormatsCause(t *testing.T) {
	err := Newf(EmptyLeadField, "K has %d rows", 0)
	if err.Kind != EmptyLeadField {
		t.Fatalf("Kind = %v, want EmptyLeadField", err.Kind)
	}
	want := "esicore: empty lead field: K has 0 rows"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFileErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &FileError{Path: "/tmp/out.bin", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("FileError should unwrap to its cause")
	}
}
