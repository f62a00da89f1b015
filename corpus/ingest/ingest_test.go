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

package ingest_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/corpus/ingest"
)

type fakeFetcher struct {
	fail map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, part string) (string, error) {
	if f.fail[part] {
		return "", fmt.Errorf("fetch failed: %s", part)
	}
	return part + ".gz", nil
}

type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
}

func (p *fakeProcessor) Process(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, name)
	return nil
}

func TestPoolRunProcessesEveryPart(t *testing.T) {
	require := require.New(t)

	fetcher := &fakeFetcher{fail: map[string]bool{"bad-part": true}}
	processor := &fakeProcessor{}
	pool := ingest.New(fetcher, processor, nil)

	errs := pool.Run(context.Background(), []string{"part-1", "part-2", "bad-part"})
	require.Len(errs, 1)
	require.Len(processor.processed, 2)
}

func TestPoolRunEmptyInput(t *testing.T) {
	require := require.New(t)

	pool := ingest.New(&fakeFetcher{}, &fakeProcessor{}, nil)
	errs := pool.Run(context.Background(), nil)
	require.Empty(errs)
}
