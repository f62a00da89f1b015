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

// Package report writes the run artefacts spec section 6 names: one
// directory per run holding metafile.txt, timing.csv, logfile.log,
// uris.csv, groups.txt, tables.txt, answerList.csv, answer.csv, report.txt
// and em.txt. The file shapes are not specified by spec.md directly; they
// are carried over from the original report writer's CSV/log conventions.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/wpdxf/em"
)

// Writer accumulates one run's artefacts under RootDir. It is not safe for
// concurrent use by multiple goroutines writing to the same file.
type Writer struct {
	RootDir string
	RunID   string
	Log     *logrus.Logger

	timerKey   []string
	timerStart []time.Time
}

// New creates the first of dirname0, dirname1, ... not already on disk
// (mirroring the original report writer's collision avoidance; the bare
// dirname is never used) under baseDir, opens its logfile.log as the Writer's log
// sink, and stamps the run with a fresh UUID.
func New(baseDir, dirname string) (*Writer, error) {
	root, err := reserveRootDir(baseDir, dirname)
	if err != nil {
		return nil, err
	}

	logPath := filepath.Join(root, "logfile.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	return &Writer{RootDir: root, RunID: id.String(), Log: log}, nil
}

func reserveRootDir(baseDir, dirname string) (string, error) {
	for n := 0; ; n++ {
		candidate := filepath.Join(baseDir, dirname+strconv.Itoa(n))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			if err := os.MkdirAll(candidate, 0755); err != nil {
				return "", err
			}
			return candidate, nil
		}
	}
}

// WriteMetafile writes metafile.txt: one "key: value" line per entry, in
// the order given, with the run's UUID stamped first.
func (w *Writer) WriteMetafile(kv []KV) error {
	f, err := os.Create(filepath.Join(w.RootDir, "metafile.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "run_id: %s\n", w.RunID); err != nil {
		return err
	}
	for _, e := range kv {
		if _, err := fmt.Fprintf(f, "%s: %v\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// KV is one metafile.txt/report.txt entry, kept as an ordered pair rather
// than a map so callers control the order it renders in.
type KV struct {
	Key   string
	Value interface{}
}

// StartTimer begins timing a named phase (spec section 6's timing.csv).
// Call EndTimer to record it.
func (w *Writer) StartTimer(key string) {
	w.timerKey = append(w.timerKey, key)
	w.timerStart = append(w.timerStart, time.Now())
}

// EndTimer pops the most recently started timer and appends its elapsed
// time to timing.csv.
func (w *Writer) EndTimer() error {
	if len(w.timerKey) == 0 {
		return fmt.Errorf("report: EndTimer called with no active timer")
	}
	n := len(w.timerKey) - 1
	key, start := w.timerKey[n], w.timerStart[n]
	w.timerKey, w.timerStart = w.timerKey[:n], w.timerStart[:n]
	end := time.Now()

	f, err := os.OpenFile(filepath.Join(w.RootDir, "timing.csv"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprint(f, csvRow(key, start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano), end.Sub(start).Seconds()))
	return err
}

// URICount is one pair's resolved match count, reported by uris.csv.
type URICount struct {
	Key         string
	ExampleURIs int
	QueryURIs   int
}

// WriteQueryResult writes uris.csv, sorted by key (spec section 6).
func (w *Writer) WriteQueryResult(counts []URICount) error {
	sorted := append([]URICount{}, counts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	f, err := os.Create(filepath.Join(w.RootDir, "uris.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	for _, c := range sorted {
		if _, err := fmt.Fprint(f, csvRow(c.Key, c.ExampleURIs, c.QueryURIs)); err != nil {
			return err
		}
	}
	return nil
}

// WriteURIGroups writes groups.txt: the group count followed by one
// rendering of each group (the URI-tree resources a run collected).
func (w *Writer) WriteURIGroups(groups []string) error {
	f, err := os.Create(filepath.Join(w.RootDir, "groups.txt"))
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%d groups:\n", len(groups)); err != nil {
		return err
	}
	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprint(f, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(f, g); err != nil {
			return err
		}
	}
	return nil
}

// AppendResourceInfo appends one resource's free-form description to
// report.txt, tagged with key.
func (w *Writer) AppendResourceInfo(key, info string) error {
	return w.appendReport(fmt.Sprintf("RESOURCE INFO: %s\n%s\n", key, info))
}

// AppendKwargsInfo appends one labelled group of key/value pairs to
// report.txt (used for the final precision/recall summary).
func (w *Writer) AppendKwargsInfo(key string, kv []KV) error {
	s := fmt.Sprintf("KWARGS INFO: %s\n", key)
	for _, e := range kv {
		s += fmt.Sprintf("%s: %v\n", e.Key, e.Value)
	}
	return w.appendReport(s)
}

func (w *Writer) appendReport(s string) error {
	f, err := os.OpenFile(filepath.Join(w.RootDir, "report.txt"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprint(f, s)
	return err
}

// AppendQueryEvaluation appends one resource's per-query evaluation table
// to tables.txt.
func (w *Writer) AppendQueryEvaluation(key string, table map[string][]string) error {
	f, err := os.OpenFile(filepath.Join(w.RootDir, "tables.txt"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n", key); err != nil {
		return err
	}
	var queries []string
	for q := range table {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	for _, q := range queries {
		if _, err := fmt.Fprintf(f, "%s: %v\n", q, table[q]); err != nil {
			return err
		}
	}
	return nil
}

// AppendEMScores appends one EM run's answer/table trust scores to em.txt.
func (w *Writer) AppendEMScores(iteration int, dist em.Distribution, goodness map[string]float64, delta float64) error {
	f, err := os.OpenFile(filepath.Join(w.RootDir, "em.txt"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Iteration %d\nDelta: %v\nAnswer Scores (%d):\n", iteration, delta, len(dist)); err != nil {
		return err
	}
	var queries []string
	for q := range dist {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	for _, q := range queries {
		if _, err := fmt.Fprintf(f, "%s: %v\n", q, dist[q]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(f, "Table Scores (%d):\n", len(goodness)); err != nil {
		return err
	}
	var ids []string
	for id := range goodness {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := fmt.Fprintf(f, "%s: %v\n", id, goodness[id]); err != nil {
			return err
		}
	}
	return nil
}

// AnswerRow is one (input, candidate output) scoring, written to
// answerList.csv and, for the winner per input, answer.csv.
type AnswerRow struct {
	Input        string
	Output       string
	InputAnswer  string
	Groundtruth  string
	Ratio        float64
	Score        float64
}

// WriteAnswer scores dist against groundtruth (spec section 9 Open
// Question (c): the full distribution, collapsed to argmax only here),
// writes answerList.csv (every candidate, sorted by input then descending
// score) and answer.csv (the winning candidate per input), and returns the
// resulting precision/recall, appending them to report.txt.
func (w *Writer) WriteAnswer(dist em.Distribution, inputs, groundtruth map[string]string) (precision, recall float64, err error) {
	rows := buildAnswerRows(dist, inputs, groundtruth)

	if err := writeAnswerCSV(filepath.Join(w.RootDir, "answerList.csv"), rows); err != nil {
		return 0, 0, err
	}

	best := bestPerInput(rows)
	if err := writeAnswerCSV(filepath.Join(w.RootDir, "answer.csv"), best); err != nil {
		return 0, 0, err
	}

	total := len(best)
	answered, correct := 0, 0
	for _, r := range best {
		if r.Output != "" {
			answered++
			if r.Output == r.Groundtruth {
				correct++
			}
		}
	}
	if answered > 0 {
		precision = float64(correct) / float64(answered)
	}
	if total > 0 {
		recall = float64(answered) / float64(total)
	}

	if err := w.AppendKwargsInfo("Result", []KV{{"precision", precision}, {"recall", recall}}); err != nil {
		return precision, recall, err
	}
	return precision, recall, nil
}

func buildAnswerRows(dist em.Distribution, inputs, groundtruth map[string]string) []AnswerRow {
	keys := make(map[string]struct{})
	for k := range inputs {
		keys[k] = struct{}{}
	}
	for k := range groundtruth {
		keys[k] = struct{}{}
	}

	var sortedKeys []string
	for k := range keys {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	var rows []AnswerRow
	for _, k := range sortedKeys {
		gt := groundtruth[k]
		values, ok := dist[k]
		if !ok || len(values) == 0 {
			rows = append(rows, AnswerRow{Input: k, Output: "", InputAnswer: inputs[k], Groundtruth: gt, Ratio: 0, Score: -1.0})
			continue
		}
		var outs []string
		for out := range values {
			outs = append(outs, out)
		}
		sort.Strings(outs)
		for _, out := range outs {
			rows = append(rows, AnswerRow{
				Input:       k,
				Output:      out,
				InputAnswer: inputs[k],
				Groundtruth: gt,
				Ratio:       ratio(out, gt),
				Score:       values[out],
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Input != rows[j].Input {
			return rows[i].Input < rows[j].Input
		}
		return rows[i].Score > rows[j].Score
	})
	return rows
}

func bestPerInput(rows []AnswerRow) []AnswerRow {
	var out []AnswerRow
	seen := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.Input] {
			seen[r.Input] = true
			out = append(out, r)
		}
	}
	return out
}

func writeAnswerCSV(path string, rows []AnswerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprint(f, csvRow("X", "Y", "Y (inp)", "Y (gt)", "Ratio", "Score")); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprint(f, csvRow(r.Input, r.Output, r.InputAnswer, r.Groundtruth, r.Ratio, r.Score)); err != nil {
			return err
		}
	}
	return nil
}

func csvRow(fields ...interface{}) string {
	s := ""
	for i, f := range fields {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%q", fmt.Sprint(f))
	}
	return s + "\n"
}

// ratio is a SequenceMatcher-style similarity ratio: twice the longest
// common subsequence length over the combined length of a and b. Reports
// answerList.csv's "Ratio" column the way the original writer's
// difflib.SequenceMatcher.ratio() call does, without pulling in a
// dependency for one column of a diagnostic CSV.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	lcs := longestCommonSubsequence(ra, rb)
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

func longestCommonSubsequence(a, b []rune) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[len(a)][len(b)]
}
