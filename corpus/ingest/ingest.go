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

// Package ingest is the corpus retrieval producer/consumer pool the
// `retrieve` CLI subcommand drives: a bounded pool of producers fetches
// archive parts (WET/WARC segments) and hands the fetched archive name to a
// bounded pool of consumers, which extract and index its terms. The shape
// follows a multiprocessing queue pipeline with a sentinel termination
// value; here it is a bounded Go channel with close-based termination,
// which is the idiomatic replacement for a sentinel value on a typed
// channel. Indexing correctness of the ingested corpus is out of scope;
// this package exists so `retrieve` has a real, runnable pipeline to drive.
package ingest

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fetcher retrieves one archive part (its partial path within the corpus's
// archive listing) and returns the archive's local name once downloaded.
type Fetcher interface {
	Fetch(ctx context.Context, archivePart string) (archiveName string, err error)
}

// Processor extracts and indexes one fetched archive's terms.
type Processor interface {
	Process(ctx context.Context, archiveName string) error
}

// Pool runs NumProducers fetchers feeding NumConsumers processors over a
// bounded pipeline.
type Pool struct {
	Fetcher      Fetcher
	Processor    Processor
	NumProducers int
	NumConsumers int
	QueueSize    int
	Log          *logrus.Entry
}

// New constructs a Pool with fixed defaults (4 producers, 4 consumers, a
// queue depth of 4); callers change the fields afterwards to tune it.
func New(fetcher Fetcher, processor Processor, log *logrus.Entry) *Pool {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Pool{
		Fetcher:      fetcher,
		Processor:    processor,
		NumProducers: 4,
		NumConsumers: 4,
		QueueSize:    4,
		Log:          log,
	}
}

// Run feeds archiveParts through the producer pool and, on success,
// through the consumer pool, blocking until every part is retrieved and
// processed or ctx is cancelled. It collects and returns every error a
// fetch or process step produced; a non-nil error from one part does not
// stop the others.
func (p *Pool) Run(ctx context.Context, archiveParts []string) []error {
	in := make(chan string, p.QueueSize)
	out := make(chan string, p.QueueSize)

	var errs []error
	var errMu sync.Mutex
	recordErr := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}

	var producers sync.WaitGroup
	for i := 0; i < p.NumProducers; i++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			p.produce(ctx, id, in, out, recordErr)
		}(i)
	}

	var consumers sync.WaitGroup
	for i := 0; i < p.NumConsumers; i++ {
		consumers.Add(1)
		go func(id int) {
			defer consumers.Done()
			p.consume(ctx, id, out, recordErr)
		}(i)
	}

	go func() {
		defer close(in)
		for _, part := range archiveParts {
			select {
			case in <- part:
			case <-ctx.Done():
				return
			}
		}
	}()

	producers.Wait()
	close(out)
	consumers.Wait()

	return errs
}

func (p *Pool) produce(ctx context.Context, id int, in <-chan string, out chan<- string, recordErr func(error)) {
	log := p.Log.WithField("producer", id)
	for part := range in {
		name, err := p.Fetcher.Fetch(ctx, part)
		if err != nil {
			log.WithError(err).WithField("archive_part", part).Warn("ingest: fetch failed")
			recordErr(err)
			continue
		}
		select {
		case out <- name:
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) consume(ctx context.Context, id int, out <-chan string, recordErr func(error)) {
	log := p.Log.WithField("consumer", id)
	for name := range out {
		if err := p.Processor.Process(ctx, name); err != nil {
			log.WithError(err).WithField("archive_name", name).Warn("ingest: process failed")
			recordErr(err)
		}
	}
}
