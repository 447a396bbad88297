package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/cache"
	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(provider string) *models.GeocodingResult {
	return &models.GeocodingResult{
		Success:    true,
		Address:    "12, Phố Huế, Quận Hai Bà Trưng, Hà Nội",
		Provider:   provider,
		Confidence: 0.8,
	}
}

func TestMemory_GetSet(t *testing.T) {
	ctx := t.Context()
	memory := cache.NewMemory(10, time.Hour)

	_, ok := memory.Get(ctx, "21.028700,105.852200")
	assert.False(t, ok, "expected a miss on an empty cache")

	want := sampleResult("Nominatim")
	memory.Set(ctx, "21.028700,105.852200", want)

	got, ok := memory.Get(ctx, "21.028700,105.852200")
	require.True(t, ok)
	assert.Same(t, want, got)
	assert.Equal(t, 1, memory.Len())
}

func TestMemory_OverwriteSameKey(t *testing.T) {
	ctx := t.Context()
	memory := cache.NewMemory(10, time.Hour)

	memory.Set(ctx, "key", sampleResult("Nominatim"))
	replacement := sampleResult("Photon")
	memory.Set(ctx, "key", replacement)

	got, ok := memory.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, "Photon", got.Provider)
	assert.Equal(t, 1, memory.Len())
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := t.Context()
	memory := cache.NewMemory(10, 30*time.Millisecond)

	memory.Set(ctx, "key", sampleResult("Nominatim"))

	_, ok := memory.Get(ctx, "key")
	require.True(t, ok, "entry should be fresh immediately after Set")

	time.Sleep(50 * time.Millisecond)

	_, ok = memory.Get(ctx, "key")
	assert.False(t, ok, "entry should have expired")
	assert.Zero(t, memory.Len(), "expired entry should be removed on read")
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := t.Context()
	memory := cache.NewMemory(10, 0)

	memory.Set(ctx, "key", sampleResult("Nominatim"))
	time.Sleep(20 * time.Millisecond)

	_, ok := memory.Get(ctx, "key")
	assert.True(t, ok)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := t.Context()
	memory := cache.NewMemory(3, time.Hour)

	for i := range 3 {
		memory.Set(ctx, fmt.Sprintf("key-%d", i), sampleResult("Nominatim"))
	}

	// Touch key-0 so key-1 becomes the eviction candidate.
	_, ok := memory.Get(ctx, "key-0")
	require.True(t, ok)

	memory.Set(ctx, "key-3", sampleResult("Photon"))

	assert.Equal(t, 3, memory.Len())
	_, ok = memory.Get(ctx, "key-1")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, key := range []string{"key-0", "key-2", "key-3"} {
		_, ok = memory.Get(ctx, key)
		assert.True(t, ok, "entry %s should survive eviction", key)
	}
}
