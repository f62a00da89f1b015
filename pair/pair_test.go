package pair_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/pair"
)

func TestMakeExampleRejectsEmptyOutput(t *testing.T) {
	require := require.New(t)

	_, err := pair.MakeExample("Input1", "", false)
	require.Error(err)
}

func TestMakeExampleTokenization(t *testing.T) {
	require := require.New(t)

	p, err := pair.MakeExample("This is a test input", "This is the test output", true)
	require.NoError(err)
	require.True(p.IsExample())

	require.NotEmpty(p.TokInp())
	require.NotEmpty(p.TokOut())
	require.Contains(p.Tokens(), "test")
}

func TestMakeQueryHasNoOutput(t *testing.T) {
	require := require.New(t)

	q := pair.MakeQuery("Denmark", false)
	require.True(q.IsQuery())
	require.Empty(q.TokOut())
	require.Equal("", q.Output())
}

func TestKeyIsDeterministicAndDistinguishesQueries(t *testing.T) {
	require := require.New(t)

	p1, _ := pair.MakeExample("Spain", "Spanish", false)
	p2, _ := pair.MakeExample("Spain", "Spanish", false)
	require.Equal(p1.Key(), p2.Key())

	q := pair.MakeQuery("Spain", false)
	require.NotEqual(p1.Key(), q.Key())
}
