package fnregistry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	require := require.New(t)

	err := Register("", func(args ...string) (bool, error) { return false, nil })
	require.True(ErrFuncNameEmpty.Is(err))

	err = Register("always_true", func(args ...string) (bool, error) { return true, nil })
	require.NoError(err)

	fn, ok := Get("always_true")
	require.True(ok)
	res, err := fn()
	require.NoError(err)
	require.True(res)

	require.Contains(Names(), "always_true")

	_, ok = Get("missing")
	require.False(ok)
}
