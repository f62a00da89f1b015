package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/pair"
)

func TestQueryPairsOrderedContiguousMatch(t *testing.T) {
	require := require.New(t)

	store := index.NewMemStore(map[string]string{
		"http://a.example/1": "This is a test input. This is the test output.",
		"http://b.example/2": "Totally unrelated content with no overlap at all.",
	})
	eng := index.NewEngine(store, 0, nil)

	p, err := pair.MakeExample("This is a test input", "This is the test output", false)
	require.NoError(err)

	result := eng.QueryPairs([]pair.Pair{p})
	require.Contains(result, "http://a.example/1")
	require.NotContains(result, "http://b.example/2")
	require.Contains(result["http://a.example/1"], p.Key())
}

func TestQueryPairsDropsUnresolvedTokens(t *testing.T) {
	require := require.New(t)

	store := index.NewMemStore(map[string]string{
		"http://a.example/1": "hello world",
	})
	eng := index.NewEngine(store, 0, nil)

	q := pair.MakeQuery("nonexistent phrase entirely", false)
	result := eng.QueryPairs([]pair.Pair{q})
	require.Empty(result)
}

func TestQueryPairsQueryNeedsOnlyInputMatch(t *testing.T) {
	require := require.New(t)

	store := index.NewMemStore(map[string]string{
		"http://a.example/1": "Denmark is a country in Scandinavia",
	})
	eng := index.NewEngine(store, 0, nil)

	q := pair.MakeQuery("Denmark", false)
	result := eng.QueryPairs([]pair.Pair{q})
	require.Contains(result, "http://a.example/1")
}
