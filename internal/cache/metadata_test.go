package cache

import (
	"context"
	"testing"

	"github.com/smartmarks/smartmarks-api/internal/models"
)

func TestNilCacheIsSafe(t *testing.T) {
	var c *MetadataCache
	ctx := context.Background()

	if _, ok := c.Get(ctx, "https://example.com"); ok {
		t.Error("nil cache reported a hit")
	}

	// Must not panic.
	c.Set(ctx, "https://example.com", models.Metadata{Title: "x"})

	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close: %v", err)
	}
}

func TestNewMetadataDisabledWithoutURL(t *testing.T) {
	c, err := NewMetadata(context.Background(), "", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Error("empty url should disable the cache")
	}
}
