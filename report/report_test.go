// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/em"
	"github.com/dolthub/wpdxf/report"
)

func TestNewReservesDistinctRootDirs(t *testing.T) {
	require := require.New(t)
	base := t.TempDir()

	w1, err := report.New(base, "WP-run")
	require.NoError(err)
	w2, err := report.New(base, "WP-run")
	require.NoError(err)

	require.NotEqual(w1.RootDir, w2.RootDir)
	require.FileExists(filepath.Join(w1.RootDir, "logfile.log"))
}

func TestWriteMetafileAndTimer(t *testing.T) {
	require := require.New(t)
	base := t.TempDir()

	w, err := report.New(base, "run")
	require.NoError(err)

	require.NoError(w.WriteMetafile([]report.KV{{Key: "benchmark", Value: "capitals.csv"}}))
	content, err := os.ReadFile(filepath.Join(w.RootDir, "metafile.txt"))
	require.NoError(err)
	require.Contains(string(content), "run_id: "+w.RunID)
	require.Contains(string(content), "benchmark: capitals.csv")

	w.StartTimer("induce")
	require.NoError(w.EndTimer())
	require.FileExists(filepath.Join(w.RootDir, "timing.csv"))

	require.Error(w.EndTimer())
}

func TestWriteAnswerProducesAnswerAndAnswerListCSVs(t *testing.T) {
	require := require.New(t)
	base := t.TempDir()

	w, err := report.New(base, "run")
	require.NoError(err)

	dist := em.Distribution{
		"capital_of_spain": {"Madrid": 0.9, "Barcelona": 0.1},
	}
	inputs := map[string]string{"capital_of_spain": "spain"}
	groundtruth := map[string]string{"capital_of_spain": "Madrid"}

	precision, recall, err := w.WriteAnswer(dist, inputs, groundtruth)
	require.NoError(err)
	require.Equal(1.0, precision)
	require.Equal(1.0, recall)

	require.FileExists(filepath.Join(w.RootDir, "answerList.csv"))
	require.FileExists(filepath.Join(w.RootDir, "answer.csv"))

	content, err := os.ReadFile(filepath.Join(w.RootDir, "answer.csv"))
	require.NoError(err)
	require.Contains(string(content), "Madrid")
}

func TestAppendEMScoresAndQueryEvaluation(t *testing.T) {
	require := require.New(t)
	base := t.TempDir()

	w, err := report.New(base, "run")
	require.NoError(err)

	dist := em.Distribution{"q1": {"a": 1.0}}
	goodness := map[string]float64{"http://example.test": 0.8}
	require.NoError(w.AppendEMScores(0, dist, goodness, 0.5))
	require.FileExists(filepath.Join(w.RootDir, "em.txt"))

	require.NoError(w.AppendQueryEvaluation("resource-1", map[string][]string{"q1": {"a", "b"}}))
	require.FileExists(filepath.Join(w.RootDir, "tables.txt"))
}
