package editdistance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type strStep string

func (s strStep) ReplaceCost(other Step) int {
	o := other.(strStep)
	if s == o {
		return 0
	}
	return 1
}

func steps(ss ...string) []Step {
	out := make([]Step, len(ss))
	for i, s := range ss {
		out[i] = strStep(s)
	}
	return out
}

func TestDistanceIdentical(t *testing.T) {
	require := require.New(t)

	r := Distance(steps("a", "b", "c"), steps("a", "b", "c"))
	require.Equal(0, r.Distance)
}

func TestDistanceInsertion(t *testing.T) {
	require := require.New(t)

	r := Distance(steps("a", "b"), steps("a", "x", "b"))
	require.Equal(InsertCost, r.Distance)
}

func TestMeanDistanceEmpty(t *testing.T) {
	require := require.New(t)

	require.Equal(0.0, MeanDistance(steps("a"), nil))
}

func TestMeanDistanceAveragesAcrossOthers(t *testing.T) {
	require := require.New(t)

	target := steps("a", "b")
	others := [][]Step{steps("a", "b"), steps("a", "c")}
	mean := MeanDistance(target, others)
	require.Greater(mean, 0.0)
}
