package shadow

import (
	"errors"
	"fmt"

	"github.com/fogleman/fauxgl"
)

// Storage backs the cascade shadow maps: one square depth layer per
// cascade. Implementations wrap a graphics API; the manager only sizes it.
type Storage interface {
	// Allocate (re)creates size x size x layers depth storage, releasing
	// any previous allocation first.
	Allocate(size, layers int) error
	// Release frees the storage. It is safe to call more than once.
	Release()
}

// ErrStorageTooLarge is returned when an allocation exceeds the budget of
// a MemoryStorage.
var ErrStorageTooLarge = errors.New("shadow storage exceeds budget")

// MemoryStorage is a CPU-side Storage holding one float32 depth buffer per
// layer. It is used headless and in tests.
type MemoryStorage struct {
	// MaxBytes limits the allocation size; zero means unlimited.
	MaxBytes int

	Size   int
	Layers [][]float32

	raster *fauxgl.Context
}

// Allocate implements Storage.
func (s *MemoryStorage) Allocate(size, layers int) error {
	s.Release()
	if size <= 0 || layers <= 0 {
		return fmt.Errorf("invalid shadow storage %dx%d x%d", size, size, layers)
	}
	bytes := size * size * layers * 4
	if s.MaxBytes > 0 && bytes > s.MaxBytes {
		return fmt.Errorf("%d bytes requested, %d allowed: %w", bytes, s.MaxBytes, ErrStorageTooLarge)
	}

	s.Size = size
	s.Layers = make([][]float32, layers)
	for i := range s.Layers {
		s.Layers[i] = make([]float32, size*size)
	}
	return nil
}

// Release implements Storage.
func (s *MemoryStorage) Release() {
	s.Size = 0
	s.Layers = nil
	s.raster = nil
}
