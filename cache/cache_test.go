package cache_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/cache"
)

var errFetch = errors.New("fetch failed")

func TestGetPutRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "cache.bolt")
	c, err := cache.Open(path, "bucket")
	require.NoError(err)
	defer c.Close()

	_, ok, err := c.Get("missing")
	require.NoError(err)
	require.False(ok)

	require.NoError(c.Put("k", []byte("v")))
	v, ok, err := c.Get("k")
	require.NoError(err)
	require.True(ok)
	require.Equal("v", string(v))
}

func TestGzipRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "cache.bolt")
	c, err := cache.Open(path, "bucket")
	require.NoError(err)
	defer c.Close()

	payload := []byte("<html><body>hello</body></html>")
	require.NoError(c.PutGzip("page", payload))

	v, ok, err := c.GetGzip("page")
	require.NoError(err)
	require.True(ok)
	require.Equal(payload, v)
}

func TestURLListCache(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "urls.bolt")
	c, err := cache.NewURLListCache(path)
	require.NoError(err)
	defer c.Close()

	_, ok, err := c.Lookup("deadbeef_cafef00d")
	require.NoError(err)
	require.False(ok)

	urls := []string{"http://a.example/1", "http://b.example/2"}
	require.NoError(c.Store("deadbeef_cafef00d", urls))

	got, ok, err := c.Lookup("deadbeef_cafef00d")
	require.NoError(err)
	require.True(ok)
	require.Equal(urls, got)
}

func TestHTMLCacheFetchesOnMiss(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "html.bolt")
	c, err := cache.NewHTMLCache(path)
	require.NoError(err)
	defer c.Close()

	fetched := 0
	c.Fetcher = func(url string) ([]byte, error) {
		fetched++
		return []byte("<html>" + url + "</html>"), nil
	}

	body, ok := c.Get("http://example.test/a")
	require.True(ok)
	require.Equal("<html>http://example.test/a</html>", string(body))
	require.Equal(1, fetched)

	// Second call is served from the bolt-backed cache, not re-fetched.
	body, ok = c.Get("http://example.test/a")
	require.True(ok)
	require.Equal("<html>http://example.test/a</html>", string(body))
	require.Equal(1, fetched)
}

func TestHTMLCacheReportsFetchFailure(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "html.bolt")
	c, err := cache.NewHTMLCache(path)
	require.NoError(err)
	defer c.Close()

	c.Fetcher = func(url string) ([]byte, error) {
		return nil, errFetch
	}

	_, ok := c.Get("http://example.test/missing")
	require.False(ok)
}
