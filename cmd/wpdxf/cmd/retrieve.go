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
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dolthub/wpdxf/config"
	"github.com/dolthub/wpdxf/corpus/ingest"
)

func newRetrieveCmd() *cobra.Command {
	var limit int
	var mpMethod string

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "download and index a sample of the WET corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetrieve(cmd.Context(), limit, mpMethod)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of archives to retrieve (0 means unbounded)")
	cmd.Flags().StringVar(&mpMethod, "mp_method", "spawn", `worker concurrency: "spawn", "fork", or "none" for a single-threaded run`)

	return cmd
}

func runRetrieve(ctx context.Context, limit int, mpMethod string) error {
	if mpMethod != "spawn" && mpMethod != "fork" && mpMethod != "none" {
		return fmt.Errorf("retrieve: unrecognised --mp_method %q", mpMethod)
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	tasks, err := sampleTasks(cfg.WetPaths, limit)
	if err != nil {
		return err
	}

	log := logrus.NewEntry(logrus.New())
	fetcher := &httpArchiveFetcher{domain: cfg.CCDomain, destDir: cfg.WetFiles}
	processor := &logOnlyProcessor{log: log}

	if mpMethod == "none" {
		var errs []error
		for _, t := range tasks {
			name, err := fetcher.Fetch(ctx, t)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := processor.Process(ctx, name); err != nil {
				errs = append(errs, err)
			}
		}
		return firstError(errs)
	}

	pool := ingest.New(fetcher, processor, log)
	pool.NumProducers = cfg.NumProducer
	pool.NumConsumers = cfg.NumConsumer
	return firstError(pool.Run(ctx, tasks))
}

// sampleTasks reads the newline-delimited archive-part listing at
// wetPathsFile and returns up to limit entries, chosen uniformly at random
// (limit <= 0 returns every entry), per spec section 5's retrieval sampling
// step.
func sampleTasks(wetPathsFile string, limit int) ([]string, error) {
	raw, err := os.ReadFile(wetPathsFile)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			all = append(all, line)
		}
	}
	if limit <= 0 || limit >= len(all) {
		return all, nil
	}

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:limit], nil
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// httpArchiveFetcher implements ingest.Fetcher by downloading
// domain+archivePart over plain HTTP(S) into destDir, standing in for the
// original's direct urlretrieve call against the Common Crawl domain.
type httpArchiveFetcher struct {
	domain  string
	destDir string
}

func (f *httpArchiveFetcher) Fetch(ctx context.Context, archivePart string) (string, error) {
	name := filepath.Base(archivePart)
	if err := os.MkdirAll(f.destDir, 0755); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.domain+archivePart, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	out, err := os.Create(filepath.Join(f.destDir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return name, nil
}

// logOnlyProcessor stands in for the WET/WARC term-extraction subroutine:
// indexing the retrieved corpus into the tokens/uris/postings relation is
// out of scope (spec section 1), so this processor only records that an
// archive arrived.
type logOnlyProcessor struct {
	log *logrus.Entry
}

func (p *logOnlyProcessor) Process(_ context.Context, archiveName string) error {
	p.log.WithField("archive", archiveName).Info("retrieve: archive ready for indexing")
	return nil
}
