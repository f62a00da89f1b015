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

// Package sqlengine is a reference index.Store over the literal
// tokens/uris/postings relation described in spec section 3/6, for callers
// whose corpus really is held in a Postgres (or any database/sql-compatible)
// instance rather than a Pilosa index. It is intentionally driver-agnostic:
// the caller supplies an already-opened *sql.DB (and therefore its own
// driver import), since no example repository in this corpus ships a
// Postgres driver to depend on directly (see DESIGN.md).
package sqlengine

import (
	"context"
	"database/sql"

	"github.com/dolthub/wpdxf/index"
)

// Store runs the three relations' queries directly against db. It assumes
// the schema named in spec section 3: tokens(token, token_id),
// uris(uri_id, uri), postings(uri_id, position, token_id).
type Store struct {
	DB  *sql.DB
	Ctx context.Context
}

// New wraps an open *sql.DB. ctx may be nil, in which case
// context.Background() is used for every query.
func New(db *sql.DB, ctx context.Context) *Store {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Store{DB: db, Ctx: ctx}
}

func (s *Store) ResolveToken(token string) (index.TokenID, bool) {
	row := s.DB.QueryRowContext(s.Ctx, `SELECT token_id FROM tokens WHERE token = $1`, token)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, false
	}
	return index.TokenID(id), true
}

func (s *Store) URI(id index.URIID) string {
	row := s.DB.QueryRowContext(s.Ctx, `SELECT uri FROM uris WHERE uri_id = $1`, int64(id))
	var uri string
	if err := row.Scan(&uri); err != nil {
		return ""
	}
	return uri
}

// Postings streams rows ordered by (uri_id, position), matching the
// streaming contract in spec section 4.2 step 3/section 5: the caller never
// materialises more than one row at a time.
func (s *Store) Postings(tokenID index.TokenID, yield func(uri index.URIID, position int) bool) {
	rows, err := s.DB.QueryContext(s.Ctx,
		`SELECT uri_id, position FROM postings WHERE token_id = $1 ORDER BY uri_id, position`,
		int64(tokenID))
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var uri int64
		var pos int
		if err := rows.Scan(&uri, &pos); err != nil {
			return
		}
		if !yield(index.URIID(uri), pos) {
			return
		}
	}
}

func (s *Store) CorpusFrequency(tokenID index.TokenID) float64 {
	var tokenCount, total int64
	row := s.DB.QueryRowContext(s.Ctx, `SELECT count(*) FROM postings WHERE token_id = $1`, int64(tokenID))
	if err := row.Scan(&tokenCount); err != nil {
		return 0
	}
	row = s.DB.QueryRowContext(s.Ctx, `SELECT count(*) FROM postings`)
	if err := row.Scan(&total); err != nil || total == 0 {
		return 0
	}
	return float64(tokenCount) / float64(total)
}

var _ index.Store = (*Store)(nil)
