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

package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/dolthub/wpdxf/tok"
	"github.com/dolthub/wpdxf/wpdxferrors"
	"github.com/dolthub/wpdxf/xpathmodel"
)

// Apply runs the resource's induced program, anchored at anchor, against
// page (spec section 4.6, "initial evaluation" / "query evaluation" share
// this code path). Every $name reference xpathmodel.Bindings hoisted is
// substituted with a quoted XPath string literal before compiling --
// sidestepping quoting injection per spec section 9's intent without
// requiring antchfx/xpath's own (much more limited) variable support.
func Apply(page *WebPage, anchor *html.Node, rel xpathmodel.RelativeXPath, b *xpathmodel.Bindings) ([]*html.Node, error) {
	abs := AbsolutePath(page, anchor, b)
	rendered := rel.Render(b)

	values := make(map[string]string)
	for name, v := range b.Map() {
		values[strings.TrimPrefix(name, "$")] = v
	}
	values[strings.TrimPrefix(xpathmodel.AbsStartPathVar, "$")] = abs
	exprStr := substituteBindings(rendered, values)

	expr, err := xpath.Compile(exprStr)
	if err != nil {
		return nil, wpdxferrors.ErrXPathEval.New(exprStr, err.Error())
	}

	nav := htmlquery.CreateXPathNavigator(page.doc)
	iter := expr.Select(nav)

	var out []*html.Node
	for iter.MoveNext() {
		if nodeNav, ok := iter.Current().(*htmlquery.NodeNavigator); ok {
			out = append(out, nodeNav.Current())
		}
	}
	return out, nil
}

// substituteBindings replaces every "$name" occurrence in expr with a
// safely-quoted XPath string literal for values[name]. It only rewrites
// whole-token variable references ($name followed by a non-identifier
// character or end of string), so it never touches unrelated "$" usage.
func substituteBindings(expr string, values map[string]string) string {
	var sb strings.Builder
	i := 0
	for i < len(expr) {
		if expr[i] != '$' {
			sb.WriteByte(expr[i])
			i++
			continue
		}
		j := i + 1
		for j < len(expr) && isIdentByte(expr[j]) {
			j++
		}
		name := expr[i+1 : j]
		if v, ok := values[name]; ok {
			sb.WriteString(quoteXPathLiteral(v))
		} else {
			sb.WriteString(expr[i:j])
		}
		i = j
	}
	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// quoteXPathLiteral renders s as an XPath 1.0 string literal. XPath has no
// escape character, so a value containing both quote types is split into
// concat() segments, each quoted with whichever delimiter it doesn't
// contain.
func quoteXPathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	segs := make([]string, 0, len(parts)*2-1)
	for i, part := range parts {
		if i > 0 {
			segs = append(segs, `'"'`)
		}
		segs = append(segs, `"`+part+`"`)
	}
	return "concat(" + strings.Join(segs, ", ") + ")"
}

// ExtractText stringifies n for query evaluation (spec section 4.6:
// "concat(self::*//text())", re-tokenised) and returns the canonical,
// whitespace-normalised token text.
func ExtractText(n *html.Node) string {
	raw := htmlquery.InnerText(n)
	return strings.Join(tok.TokenTexts(tok.Tokenize(raw, false, 0)), " ")
}
