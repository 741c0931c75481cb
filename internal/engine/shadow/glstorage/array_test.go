package glstorage

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

func TestAllocateWithoutContext(t *testing.T) {
	var a Array
	if err := a.Allocate(1024, 4); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("Allocate error = %v, want ErrStorageUnavailable", err)
	}
	if a.Valid() {
		t.Error("array valid without a context")
	}
	a.Release()
}

func TestManagerDisablesWithoutContext(t *testing.T) {
	m, err := shadow.NewCascadedShadowManager(&Array{}, shadow.DefaultSettings(), nil)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
	if m.Enabled() {
		t.Error("shadows enabled without a context")
	}
}
