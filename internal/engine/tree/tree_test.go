package tree_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/engine/tree"
	"go.trai.ch/ontoenv/internal/ui/output"
)

func graph(edges ...[2]string) *domain.ImportGraph {
	g := domain.NewImportGraph()
	for _, e := range edges {
		if e[1] == "" {
			g.AddNode(domain.OntologyURI(e[0]))
			continue
		}
		g.AddEdge(domain.OntologyURI(e[0]), domain.OntologyURI(e[1]))
	}
	return g
}

func roots(raw ...string) []domain.OntologyURI {
	out := make([]domain.OntologyURI, len(raw))
	for i, r := range raw {
		out[i] = domain.OntologyURI(r)
	}
	return out
}

func render(t *testing.T, forest []*tree.Node) []byte {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	require.NoError(t, tree.Render(output.New(&buf), forest))
	return buf.Bytes()
}

func TestRender_Golden(t *testing.T) {
	unresolved := func(u domain.OntologyURI) bool { return u == "http://nonexistent.example/x" }

	tests := []struct {
		name       string
		graph      *domain.ImportGraph
		roots      []domain.OntologyURI
		goldenName string
	}{
		{
			name:       "shared import collapsed",
			graph:      graph([2]string{"urn:a", "urn:b"}, [2]string{"urn:a", "urn:c"}, [2]string{"urn:b", "urn:c"}),
			roots:      roots("urn:a"),
			goldenName: "tree_abc",
		},
		{
			name:       "shared import seen first directly",
			graph:      graph([2]string{"urn:a", "urn:c"}, [2]string{"urn:a", "urn:b"}, [2]string{"urn:b", "urn:c"}),
			roots:      roots("urn:a"),
			goldenName: "tree_acb",
		},
		{
			name:       "cycle",
			graph:      graph([2]string{"urn:a", "urn:b"}, [2]string{"urn:b", "urn:a"}),
			roots:      roots("urn:a"),
			goldenName: "tree_cycle",
		},
		{
			name: "forest with unresolved",
			graph: graph(
				[2]string{"urn:a", "urn:b"},
				[2]string{"urn:a", "http://nonexistent.example/x"},
				[2]string{"urn:b", "urn:c"},
				[2]string{"urn:d", "urn:b"},
			),
			roots:      roots("urn:a", "urn:d"),
			goldenName: "tree_forest",
		},
		{
			name: "unresolved import reached twice",
			graph: graph(
				[2]string{"urn:a", "http://nonexistent.example/x"},
				[2]string{"urn:a", "urn:b"},
				[2]string{"urn:b", "http://nonexistent.example/x"},
			),
			roots:      roots("urn:a"),
			goldenName: "tree_unresolved_dup",
		},
		{
			name:       "single node",
			graph:      graph([2]string{"urn:solo", ""}),
			roots:      roots("urn:solo"),
			goldenName: "tree_single",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tree.Build(tt.graph, tt.roots, unresolved))
			g := goldie.New(t)
			g.Assert(t, tt.goldenName, got)
		})
	}
}

func TestWriteDOT_Golden(t *testing.T) {
	g := graph(
		[2]string{"urn:a", "urn:b"},
		[2]string{"urn:a", "urn:c"},
		[2]string{"urn:b", "urn:c"},
		[2]string{"urn:c", "urn:a"},
		[2]string{"urn:c", "http://nonexistent.example/x"},
		[2]string{"urn:d", "urn:b"},
	)
	forest := tree.Build(g, roots("urn:a", "urn:d"), func(u domain.OntologyURI) bool { return u == "http://nonexistent.example/x" })

	var buf bytes.Buffer
	require.NoError(t, tree.WriteDOT(&buf, forest))
	goldie.New(t).Assert(t, "graph_dot", buf.Bytes())

	again := bytes.Buffer{}
	require.NoError(t, tree.WriteDOT(&again, tree.Build(g, roots("urn:a", "urn:d"), nil)))
	assert.Equal(t, 6, bytes.Count(again.Bytes(), []byte(" -> ")), "every edge once")
}

func TestBuild_DuplicatesAreChildlessLeaves(t *testing.T) {
	g := graph([2]string{"urn:a", "urn:b"}, [2]string{"urn:a", "urn:c"}, [2]string{"urn:b", "urn:c"}, [2]string{"urn:c", "urn:d"})

	forest := tree.Build(g, roots("urn:a"), nil)
	require.Len(t, forest, 1)

	a := forest[0]
	require.Len(t, a.Children, 2)
	b, dup := a.Children[0], a.Children[1]

	require.Len(t, b.Children, 1)
	full := b.Children[0]
	assert.Equal(t, domain.OntologyURI("urn:c"), full.URI)
	assert.False(t, full.Duplicate)
	assert.Len(t, full.Children, 1)

	assert.Equal(t, domain.OntologyURI("urn:c"), dup.URI)
	assert.True(t, dup.Duplicate)
	assert.False(t, dup.Cycle)
	assert.Empty(t, dup.Children)
}

func TestBuild_IsRestartable(t *testing.T) {
	g := graph([2]string{"urn:a", "urn:b"}, [2]string{"urn:a", "urn:c"}, [2]string{"urn:b", "urn:c"}, [2]string{"urn:c", "urn:a"})

	first := render(t, tree.Build(g, roots("urn:a"), nil))
	second := render(t, tree.Build(g, roots("urn:a"), nil))
	assert.Equal(t, first, second)
}

func TestBuild_DeepChain(t *testing.T) {
	const depth = 50_000
	g := domain.NewImportGraph()
	prev := domain.OntologyURI("urn:n0")
	g.AddNode(prev)
	for i := 1; i < depth; i++ {
		next := domain.OntologyURI("urn:n" + itoa(i))
		g.AddEdge(prev, next)
		prev = next
	}

	forest := tree.Build(g, roots("urn:n0"), nil)
	n := forest[0]
	count := 1
	for len(n.Children) > 0 {
		n = n.Children[0]
		count++
	}
	assert.Equal(t, depth, count)
}

func TestRender_Styles(t *testing.T) {
	g := graph([2]string{"urn:a", "urn:b"}, [2]string{"urn:a", "urn:b2"}, [2]string{"urn:b2", "urn:b"})
	forest := tree.Build(g, roots("urn:a"), func(u domain.OntologyURI) bool { return u == "urn:b2" })

	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.ANSI })
	require.NoError(t, tree.Render(out, forest))

	assert.Contains(t, buf.String(), "\x1b[1murn:b [dup]")
	assert.Contains(t, buf.String(), "urn:b2 [unresolved]")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRender_UnresolvedDuplicateKeepsBothMarkers(t *testing.T) {
	g := graph([2]string{"urn:a", "urn:x"}, [2]string{"urn:a", "urn:x2"}, [2]string{"urn:x2", "urn:x"}, [2]string{"urn:x2", "urn:a"})
	forest := tree.Build(g, roots("urn:a"), func(u domain.OntologyURI) bool { return u == "urn:x" || u == "urn:a" })

	got := string(render(t, forest))
	assert.Contains(t, got, "urn:x [dup] [unresolved]")
	assert.Contains(t, got, "urn:a [cycle] [unresolved]")
}

func itoa(i int) string {
	var b [20]byte
	pos := len(b)
	for {
		pos--
		b[pos] = byte('0' + i%10)
		i /= 10
		if i == 0 {
			return string(b[pos:])
		}
	}
}
