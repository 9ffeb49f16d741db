package cache

import (
	"net/url"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache creates a temporary BadgerDB cache for testing.
func setupTestCache(t *testing.T) *BadgerCache {
	t.Helper()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)

	c, err := NewBadgerCache(t.TempDir(), log)
	require.NoError(t, err, "failed to open test cache")

	t.Cleanup(func() {
		assert.NoError(t, c.Close(), "failed to close test cache")
	})
	return c
}

func TestBadgerCache_GetMiss(t *testing.T) {
	c := setupTestCache(t)

	markup, hit, err := c.Get("example.test", "deadbeef")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, markup)
}

func TestBadgerCache_SetAndGet(t *testing.T) {
	c := setupTestCache(t)

	const page = "<html><body><p class=\"a\">yeah baby</p></body></html>"
	require.NoError(t, c.Set("example.test", "deadbeef", page))

	markup, hit, err := c.Get("example.test", "deadbeef")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, page, markup)
}

func TestBadgerCache_OverwriteLastWriterWins(t *testing.T) {
	c := setupTestCache(t)

	require.NoError(t, c.Set("example.test", "deadbeef", "first"))
	require.NoError(t, c.Set("example.test", "deadbeef", "second"))

	markup, hit, err := c.Get("example.test", "deadbeef")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "second", markup)
}

func TestBadgerCache_NamespaceIsolation(t *testing.T) {
	c := setupTestCache(t)

	// Identical keys under different hosts must never collide.
	require.NoError(t, c.Set("a.test", "deadbeef", "page-a"))
	require.NoError(t, c.Set("b.test", "deadbeef", "page-b"))

	markupA, hitA, err := c.Get("a.test", "deadbeef")
	require.NoError(t, err)
	require.True(t, hitA)
	assert.Equal(t, "page-a", markupA)

	markupB, hitB, err := c.Get("b.test", "deadbeef")
	require.NoError(t, err)
	require.True(t, hitB)
	assert.Equal(t, "page-b", markupB)
}

func TestKey_IgnoresQueryAndFragment(t *testing.T) {
	base, err := url.Parse("https://example.test/some/page")
	require.NoError(t, err)
	withQuery, err := url.Parse("https://example.test/some/page?session=42#top")
	require.NoError(t, err)

	assert.Equal(t, Key(base), Key(withQuery),
		"addresses differing only in query/fragment must share a key")
}

func TestKey_DiffersByPath(t *testing.T) {
	a, err := url.Parse("https://example.test/one")
	require.NoError(t, err)
	b, err := url.Parse("https://example.test/two")
	require.NoError(t, err)

	assert.NotEqual(t, Key(a), Key(b))
	assert.Len(t, Key(a), 64, "key must be a hex-encoded SHA-256 digest")
}
