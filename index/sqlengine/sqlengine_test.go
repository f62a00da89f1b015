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

package sqlengine_test

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/index/sqlengine"
)

// fakeDriver backs a tiny, fixed tokens/uris/postings dataset so
// sqlengine.Store can be exercised against database/sql without a real
// database: token_id 1 ("red") occurs at uri 0 position 0 and uri 1
// position 2, out of 3 total postings rows.
type fakeDriver struct{}
type fakeConn struct{}
type fakeStmt struct{ query string }
type fakeRows struct {
	data [][]driver.Value
	pos  int
}

func (fakeDriver) Open(name string) (driver.Conn, error) { return fakeConn{}, nil }

func (fakeConn) Prepare(query string) (driver.Stmt, error) { return fakeStmt{query: query}, nil }
func (fakeConn) Close() error                              { return nil }
func (fakeConn) Begin() (driver.Tx, error)                 { return nil, errors.New("sqlengine_test: transactions unsupported") }

func (s fakeStmt) Close() error  { return nil }
func (s fakeStmt) NumInput() int { return -1 }
func (s fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("sqlengine_test: exec unsupported")
}

func (s fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	switch {
	case strings.Contains(s.query, "FROM tokens"):
		if len(args) == 1 && args[0] == "red" {
			return &fakeRows{data: [][]driver.Value{{int64(1)}}}, nil
		}
		return &fakeRows{}, nil
	case strings.Contains(s.query, "FROM uris"):
		if len(args) == 1 && args[0] == int64(0) {
			return &fakeRows{data: [][]driver.Value{{"http://a.test/"}}}, nil
		}
		return &fakeRows{}, nil
	case strings.Contains(s.query, "FROM postings WHERE token_id"):
		if strings.Contains(s.query, "count(*)") {
			if len(args) == 1 && args[0] == int64(1) {
				return &fakeRows{data: [][]driver.Value{{int64(2)}}}, nil
			}
			return &fakeRows{data: [][]driver.Value{{int64(0)}}}, nil
		}
		if len(args) == 1 && args[0] == int64(1) {
			return &fakeRows{data: [][]driver.Value{
				{int64(0), int64(0)},
				{int64(1), int64(2)},
			}}, nil
		}
		return &fakeRows{}, nil
	case strings.Contains(s.query, "count(*) FROM postings"):
		return &fakeRows{data: [][]driver.Value{{int64(3)}}}, nil
	default:
		return nil, errors.New("sqlengine_test: unrecognised query " + s.query)
	}
}

func (r *fakeRows) Columns() []string { return nil }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func init() { sql.Register("wpdxf-fake", fakeDriver{}) }

func TestStoreRunsAgainstDatabaseSQL(t *testing.T) {
	require := require.New(t)

	db, err := sql.Open("wpdxf-fake", "")
	require.NoError(err)
	defer db.Close()

	store := sqlengine.New(db, nil)

	id, ok := store.ResolveToken("red")
	require.True(ok)

	require.Equal("http://a.test/", store.URI(0))

	var uris []index.URIID
	var positions []int
	store.Postings(id, func(uri index.URIID, position int) bool {
		uris = append(uris, uri)
		positions = append(positions, position)
		return true
	})
	require.Equal([]index.URIID{0, 1}, uris)
	require.Equal([]int{0, 2}, positions)

	require.InDelta(2.0/3.0, store.CorpusFrequency(id), 1e-9)
}
