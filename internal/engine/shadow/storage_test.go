package shadow

import (
	"errors"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	s := &MemoryStorage{}
	if err := s.Allocate(256, 3); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if s.Size != 256 || len(s.Layers) != 3 || len(s.Layers[2]) != 256*256 {
		t.Errorf("storage = %d x%d", s.Size, len(s.Layers))
	}

	if err := s.Allocate(0, 3); err == nil {
		t.Error("expected error for zero size")
	}
	if s.Layers != nil {
		t.Error("failed allocation kept old layers")
	}

	s.Release()
	s.Release()
}

func TestMemoryStorageBudget(t *testing.T) {
	s := &MemoryStorage{MaxBytes: 256 * 256 * 4 * 2}
	if err := s.Allocate(256, 2); err != nil {
		t.Fatalf("Allocate within budget: %v", err)
	}
	if err := s.Allocate(256, 3); !errors.Is(err, ErrStorageTooLarge) {
		t.Errorf("err = %v, want ErrStorageTooLarge", err)
	}
}
