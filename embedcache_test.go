package tubetrends

import (
	"context"
	"reflect"
	"testing"
)

// countingEmbedder wraps fakeEmbedder and counts provider calls.
type countingEmbedder struct {
	inner *fakeEmbedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func TestEmbeddingCacheHitSkipsProvider(t *testing.T) {
	provider := &countingEmbedder{inner: &fakeEmbedder{vectors: map[string][]float64{
		"go": {0.1, 0.2, 0.3},
	}}}

	cache, err := NewEmbeddingCache(":memory:", provider)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	first, err := cache.Embed(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Embed(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}

func TestEmbeddingCachePropagatesProviderError(t *testing.T) {
	provider := &countingEmbedder{inner: &fakeEmbedder{}}

	cache, err := NewEmbeddingCache(":memory:", provider)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, err := cache.Embed(context.Background(), "missing"); err == nil {
		t.Error("expected error from provider")
	}
	// Failures are not cached.
	if _, err := cache.Embed(context.Background(), "missing"); err == nil {
		t.Error("expected error on retry")
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2", provider.calls)
	}
}
