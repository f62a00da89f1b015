package xpathmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dos() Node {
	return Node{Axis: AxisDescendantOrSelf, Test: NodeTestAnyNode}
}

func named(axis Axis, name string) Node {
	return Node{Axis: axis, Test: NamedTest(name)}
}

func TestRenderCollapsesDescendantOrSelfRuns(t *testing.T) {
	require := require.New(t)

	p := Path{dos(), dos(), named(AxisChild, "body"), dos(), dos(), named(AxisChild, "table")}
	b := NewBindings()
	require.Equal("//body//table", p.Render(b))
}

func TestRenderNoLeadingSlashWhenNoPrefix(t *testing.T) {
	require := require.New(t)

	p := Path{named(AxisChild, "bookstore"), named(AxisChild, "book")}
	b := NewBindings()
	require.Equal("bookstore/book", p.Render(b))
}

func TestInsertSelfAt(t *testing.T) {
	require := require.New(t)

	p := Path{named(AxisChild, "a"), named(AxisChild, "b")}
	out := p.InsertSelfAt([]int{1})
	require.Len(out, 3)
	require.Equal(AxisSelf, out[1].Axis)
}

func TestBindingsShareEqualConstants(t *testing.T) {
	require := require.New(t)

	b := NewBindings()
	n1 := b.Hoist("Spain")
	n2 := b.Hoist("Spain")
	require.Equal(n1, n2)

	n3 := b.Hoist("Germany")
	require.NotEqual(n1, n3)
}

func TestAttributePredicateRender(t *testing.T) {
	require := require.New(t)

	step := Node{
		Axis: AxisChild,
		Test: NamedTest("div"),
		Predicates: Predicates{
			{AttributePredicate("class", strPtr("result"))},
		},
	}
	b := NewBindings()
	rendered := step.render(b)
	require.Contains(rendered, "div[@class = $v_")
}

func strPtr(s string) *string { return &s }
