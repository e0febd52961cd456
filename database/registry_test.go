package database

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowra/knowra-be/types"
)

type fakeIndex struct {
	label string
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ int) ([]types.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeIndex) Count() int { return 0 }

func TestMemoryRegistry(t *testing.T) {
	t.Run("Get on an unknown name reports absence", func(t *testing.T) {
		registry := NewMemoryRegistry()
		_, ok := registry.Get("missing.pdf")
		assert.False(t, ok)
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		registry := NewMemoryRegistry()
		index := &fakeIndex{label: "a"}
		registry.Put("doc.pdf", index)

		got, ok := registry.Get("doc.pdf")
		require.True(t, ok)
		assert.Same(t, index, got)
	})

	t.Run("Put for an existing name replaces, last write wins", func(t *testing.T) {
		registry := NewMemoryRegistry()
		registry.Put("doc.pdf", &fakeIndex{label: "old"})
		replacement := &fakeIndex{label: "new"}
		registry.Put("doc.pdf", replacement)

		got, ok := registry.Get("doc.pdf")
		require.True(t, ok)
		assert.Same(t, replacement, got)
	})

	t.Run("Remove deletes the mapping", func(t *testing.T) {
		registry := NewMemoryRegistry()
		registry.Put("doc.pdf", &fakeIndex{})
		registry.Remove("doc.pdf")

		_, ok := registry.Get("doc.pdf")
		assert.False(t, ok)
	})

	t.Run("Concurrent readers and writers do not corrupt the map", func(t *testing.T) {
		registry := NewMemoryRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				registry.Put("doc.pdf", &fakeIndex{})
			}()
			go func() {
				defer wg.Done()
				registry.Get("doc.pdf")
			}()
		}
		wg.Wait()

		_, ok := registry.Get("doc.pdf")
		assert.True(t, ok)
	})
}
