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

package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dolthub/wpdxf/config"
	"github.com/dolthub/wpdxf/dom"
	"github.com/dolthub/wpdxf/em"
	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/report"
	"github.com/dolthub/wpdxf/resource"
	"github.com/dolthub/wpdxf/tok"
	"github.com/dolthub/wpdxf/wrap"
)

type runFlags struct {
	mode             string
	benchmark        string
	corpusDir        string
	reportDir        string
	input            string
	output           string
	seed             int64
	numExamples      int
	tau              int
	enrichPredicates bool
	tokenMatch       string
	maxRelTF         float64
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "induce and evaluate a wrapper over a benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.mode, "mode", "m", "WP", "evaluation approach: WP, WT, or FE")
	flags.StringVarP(&f.benchmark, "benchmark", "b", "", "benchmark CSV file or directory of CSV files")
	flags.StringVar(&f.corpusDir, "corpus-dir", "", "directory of locally mirrored pages: manifest.json (filename -> url) plus the HTML files")
	flags.StringVar(&f.reportDir, "report-dir", ".", "base directory under which a timestamped report directory is created")
	flags.StringVar(&f.input, "input", "0", "column index or header used as input")
	flags.StringVar(&f.output, "output", "-1", "column index or header used as output")
	flags.Int64Var(&f.seed, "seed", 0, "random seed for the example/query split")
	flags.IntVar(&f.numExamples, "num_examples", 5, "number of rows held out as examples")
	flags.IntVar(&f.tau, "tau", 2, "minimum example agreement a resource/program must retain")
	flags.BoolVar(&f.enrichPredicates, "enrich_predicates", false, "run the predicate enricher (C9) over the induced end path")
	flags.StringVar(&f.tokenMatch, "token_match", "cn", `initial token match mode: "eq" or "cn"`)
	flags.StringVar(&f.tokenMatch, "tm", "cn", `alias for --token_match`)
	flags.Float64Var(&f.maxRelTF, "max_rel_tf", 0.01, "drop index tokens more frequent than this fraction of the corpus")
	flags.Float64Var(&f.maxRelTF, "tf", 0.01, "alias for --max_rel_tf")

	cmd.MarkFlagRequired("benchmark")
	cmd.MarkFlagRequired("corpus-dir")

	return cmd
}

func runRun(f *runFlags) error {
	switch f.mode {
	case "WT", "FE":
		return fmt.Errorf("run: mode %s is out of scope (spec's web-table/FlashExtract variants are non-goals)", f.mode)
	case "WP":
	default:
		return fmt.Errorf("run: unrecognised --mode %q", f.mode)
	}

	matchMode, err := parseMatchMode(f.tokenMatch)
	if err != nil {
		return err
	}

	files, err := benchmarkFiles(f.benchmark)
	if err != nil {
		return err
	}

	pages, err := loadCorpus(f.corpusDir)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := runSingleBenchmark(file, f, pages, matchMode); err != nil {
			logrus.WithError(err).WithField("benchmark", file).Error("run: benchmark failed")
		}
	}
	return nil
}

func parseMatchMode(s string) (dom.MatchMode, error) {
	switch s {
	case "eq":
		return dom.MatchEquals, nil
	case "cn":
		return dom.MatchContains, nil
	default:
		return 0, fmt.Errorf("run: unrecognised --token_match %q", s)
	}
}

func benchmarkFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".csv" {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// loadCorpus reads manifest.json (filename -> url) from dir and parses
// every named file as a dom.WebPage, keyed by url.
func loadCorpus(dir string) (map[string]*dom.WebPage, error) {
	manifestRaw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("run: reading corpus manifest: %w", err)
	}
	var manifest map[string]string
	if err := json.Unmarshal(manifestRaw, &manifest); err != nil {
		return nil, fmt.Errorf("run: parsing corpus manifest: %w", err)
	}

	pages := make(map[string]*dom.WebPage, len(manifest))
	for filename, url := range manifest {
		body, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return nil, err
		}
		page, err := dom.ParseString(url, string(body))
		if err != nil {
			logrus.WithError(err).WithField("url", url).Warn("run: dropping unparsable page")
			continue
		}
		pages[url] = page
	}
	return pages, nil
}

func runSingleBenchmark(file string, f *runFlags, pages map[string]*dom.WebPage, matchMode dom.MatchMode) error {
	rw, err := report.New(f.reportDir, fmt.Sprintf("%s-%s", f.mode, strings.TrimSuffix(filepath.Base(file), ".csv")))
	if err != nil {
		return err
	}

	rows, header, err := readBenchmarkCSV(file)
	if err != nil {
		return err
	}
	inCol, err := resolveColumn(f.input, header)
	if err != nil {
		return err
	}
	outCol, err := resolveColumn(f.output, header)
	if err != nil {
		return err
	}

	exampleRows, queryRows, err := splitBenchmark(rows, f.numExamples, f.seed)
	if err != nil {
		return err
	}

	if err := rw.WriteMetafile([]report.KV{
		{Key: "filename", Value: file},
		{Key: "mode", Value: f.mode},
		{Key: "seed", Value: f.seed},
		{Key: "num_examples", Value: f.numExamples},
		{Key: "tau", Value: f.tau},
		{Key: "enrich_predicates", Value: f.enrichPredicates},
		{Key: "token_match", Value: f.tokenMatch},
		{Key: "max_rel_tf", Value: f.maxRelTF},
	}); err != nil {
		return err
	}

	var examples []pair.Pair
	exampleGroundtruth := make(map[string]string)
	for _, r := range exampleRows {
		ex, err := pair.MakeExample(r[inCol], r[outCol], false)
		if err != nil {
			continue
		}
		examples = append(examples, ex)
		exampleGroundtruth[ex.Key()] = r[outCol]
	}

	queries := make(map[string]pair.Pair)
	groundtruth := make(map[string]string)
	inputs := make(map[string]string)
	for _, r := range queryRows {
		q := pair.MakeQuery(r[inCol], false)
		queries[q.Key()] = q
		groundtruth[q.Key()] = r[outCol]
		inputs[q.Key()] = r[inCol]
	}
	var queryPairs []pair.Pair
	for _, q := range queries {
		queryPairs = append(queryPairs, q)
	}

	store := buildIndex(pages)
	engine := index.NewEngine(store, f.maxRelTF, nil)
	collector := resource.NewCollector(engine, nil, f.tau, nil)

	allPairs := append(append([]pair.Pair{}, examples...), queryPairs...)
	resources, err := collector.Collect(allPairs, 0)
	if err != nil {
		return err
	}

	groupLabels := make([]string, 0, len(resources))
	var tables []em.Table
	for i, res := range resources {
		label := fmt.Sprintf("%s#%d", res.Host, i)
		groupLabels = append(groupLabels, label)

		resourcePages := pagesFor(pages, res)
		for _, p := range resourcePages {
			p.LocateInitial(append(append([]pair.Pair{}, examples...), queryPairs...), matchMode)
		}

		table, err := wrap.Run(context.Background(), label, resourcePages, pairKeys(examples), pairKeys(queryPairs), f.tau, f.enrichPredicates, nil)
		if err != nil {
			logReportErr(rw.AppendResourceInfo(label, err.Error()))
			continue
		}
		logReportErr(rw.AppendResourceInfo(label, fmt.Sprintf("examples retained: %v", table.ExampleKeys)))

		tables = append(tables, em.Table{ID: label, Answers: table.Answers})

		tableDump := make(map[string][]string)
		for q, answer := range table.Answers {
			tableDump[q] = []string{answer}
		}
		logReportErr(rw.AppendQueryEvaluation(label, tableDump))
	}
	logReportErr(rw.WriteURIGroups(groupLabels))

	dist, trust := em.Score(context.Background(), tables, exampleGroundtruth, pairKeys(queryPairs))
	logReportErr(rw.AppendEMScores(0, dist, trust, 0))

	precision, recall, err := rw.WriteAnswer(dist, inputs, groundtruth)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"precision": precision, "recall": recall, "report_dir": rw.RootDir}).Info("run: finished")
	return nil
}

func logReportErr(err error) {
	if err != nil {
		logrus.WithError(err).Warn("run: report write failed")
	}
}

func pagesFor(pages map[string]*dom.WebPage, res resource.Resource) map[string]*dom.WebPage {
	out := make(map[string]*dom.WebPage)
	for _, url := range res.Tree.LeafURLs(res.Node) {
		if p, ok := pages[url]; ok {
			out[url] = p
		}
	}
	return out
}

func pairKeys(ps []pair.Pair) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Key()
	}
	return out
}

// buildIndex tokenizes every page's extracted text into a MemStore, and
// along the way feeds a tok.Stats so the corpus's token-frequency snapshot
// can be reported every UPDATE_STATS_EACH pages (config.UpdateStatsEach;
// Stats counts one Observe call per page),
// restoring the original tokenwriter's incremental bookkeeping.
func buildIndex(pages map[string]*dom.WebPage) *index.MemStore {
	flushEvery := 1000
	if cfg, err := config.Get(); err == nil {
		flushEvery = cfg.UpdateStatsEach
	}
	stats := tok.NewStats(flushEvery)

	texts := make(map[string]string, len(pages))
	for url, p := range pages {
		text := dom.ExtractText(p.Root())
		texts[url] = text
		stats.Observe(tok.Tokenize(text, false, 0), func(snapshot map[string]int) {
			logrus.WithField("distinct_tokens", len(snapshot)).Debug("run: token-frequency stats flushed")
		})
	}
	logrus.WithField("distinct_tokens", len(stats.Snapshot())).Debug("run: corpus tokenized")

	return index.NewMemStore(texts)
}

func readBenchmarkCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("run: %s is empty", path)
	}
	return all[1:], all[0], nil
}

func resolveColumn(spec string, header []string) (int, error) {
	if n, err := strconv.Atoi(spec); err == nil {
		if n < 0 {
			n += len(header)
		}
		if n < 0 || n >= len(header) {
			return 0, fmt.Errorf("run: column index %s out of range", spec)
		}
		return n, nil
	}
	for i, h := range header {
		if h == spec {
			return i, nil
		}
	}
	return 0, fmt.Errorf("run: column %q not found in header", spec)
}

// splitBenchmark mirrors split_benchmark: shuffle deterministically by
// seed, then take the first numExamples rows as examples and the rest as
// queries (spec section 6).
func splitBenchmark(rows [][]string, numExamples int, seed int64) (examples, queries [][]string, err error) {
	if numExamples > len(rows) {
		return nil, nil, fmt.Errorf("run: benchmark contains too few rows (%d) for %d examples", len(rows), numExamples)
	}
	shuffled := append([][]string{}, rows...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	return shuffled[:numExamples], shuffled[numExamples:], nil
}
