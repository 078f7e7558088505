package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, parentID, name string, sortOrder int) Node {
	return Node{ID: id, ParentID: parentID, Name: name, Kind: KindCustom, SortOrder: sortOrder}
}

func forestIDs(forest []*Node) []string {
	ids := make([]string, 0, len(forest))
	for _, n := range forest {
		ids = append(ids, n.ID)
	}
	return ids
}

func countNodes(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + countNodes(n.Children)
	}
	return total
}

func TestBuildForest(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, BuildForest(nil))
		assert.Empty(t, BuildForest([]Node{}))
	})

	t.Run("single root", func(t *testing.T) {
		forest := BuildForest([]Node{node("a", "", "Maths", 0)})
		require.Len(t, forest, 1)
		assert.Equal(t, "a", forest[0].ID)
		assert.Empty(t, forest[0].Children)
	})

	t.Run("nested children attach to their parent", func(t *testing.T) {
		forest := BuildForest([]Node{
			node("a", "", "Maths", 0),
			node("b", "a", "Year 1", 0),
			node("c", "b", "Algebra", 0),
			node("d", "a", "Year 2", 1),
		})
		require.Len(t, forest, 1)
		a := forest[0]
		require.Len(t, a.Children, 2)
		assert.Equal(t, []string{"b", "d"}, forestIDs(a.Children))
		require.Len(t, a.Children[0].Children, 1)
		assert.Equal(t, "c", a.Children[0].Children[0].ID)
	})

	t.Run("orphans are promoted to roots", func(t *testing.T) {
		forest := BuildForest([]Node{
			node("a", "", "Maths", 0),
			node("b", "gone", "Dangling", 1),
		})
		assert.Equal(t, []string{"a", "b"}, forestIDs(forest))
	})

	t.Run("self-referential node becomes a root", func(t *testing.T) {
		forest := BuildForest([]Node{node("a", "a", "Loner", 0)})
		require.Len(t, forest, 1)
		assert.Equal(t, "a", forest[0].ID)
		assert.Empty(t, forest[0].Children)
	})

	t.Run("every input node appears exactly once", func(t *testing.T) {
		flat := []Node{
			node("a", "", "Maths", 0),
			node("b", "a", "Year 1", 0),
			node("c", "gone", "Dangling", 0),
			node("d", "d", "Loner", 0),
			node("e", "b", "Algebra", 0),
		}
		forest := BuildForest(flat)
		assert.Equal(t, len(flat), countNodes(forest))
	})

	t.Run("siblings ordered by sortOrder, name, id", func(t *testing.T) {
		forest := BuildForest([]Node{
			node("c", "", "zzz", 0),
			node("a", "", "Bbb", 1),
			node("b", "", "aaa", 1),
			node("e", "", "same", 2),
			node("d", "", "Same", 2),
		})
		assert.Equal(t, []string{"c", "b", "a", "d", "e"}, forestIDs(forest))
	})

	t.Run("rebuild is deterministic", func(t *testing.T) {
		flat := []Node{
			node("a", "", "Maths", 1),
			node("b", "", "History", 0),
			node("c", "a", "Year 1", 1),
			node("d", "a", "Year 2", 0),
		}
		first := BuildForest(flat)
		second := BuildForest(flat)
		assert.Equal(t, first, second)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		flat := []Node{
			node("a", "", "Maths", 0),
			node("b", "a", "Year 1", 0),
		}
		BuildForest(flat)
		assert.Nil(t, flat[0].Children)
		assert.Nil(t, flat[1].Children)
	})
}

func TestIsDescendant(t *testing.T) {
	forest := BuildForest([]Node{
		node("a", "", "Maths", 0),
		node("b", "a", "Year 1", 0),
		node("c", "b", "Algebra", 0),
		node("x", "", "History", 1),
	})
	a := FindNode(forest, "a")
	require.NotNil(t, a)

	tests := []struct {
		name        string
		node        *Node
		candidateID string
		want        bool
	}{
		{name: "direct child", node: a, candidateID: "b", want: true},
		{name: "grandchild", node: a, candidateID: "c", want: true},
		{name: "node is not its own descendant", node: a, candidateID: "a", want: false},
		{name: "unrelated root", node: a, candidateID: "x", want: false},
		{name: "unknown id", node: a, candidateID: "nope", want: false},
		{name: "nil node", node: nil, candidateID: "a", want: false},
		{name: "leaf has no descendants", node: FindNode(forest, "c"), candidateID: "a", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDescendant(tt.node, tt.candidateID))
		})
	}
}

func TestFindNode(t *testing.T) {
	forest := BuildForest([]Node{
		node("a", "", "Maths", 0),
		node("b", "a", "Year 1", 0),
		node("c", "b", "Algebra", 0),
	})

	assert.Equal(t, "a", FindNode(forest, "a").ID)
	assert.Equal(t, "c", FindNode(forest, "c").ID)
	assert.Nil(t, FindNode(forest, "nope"))
	assert.Nil(t, FindNode(nil, "a"))
}

func TestContainingGroup(t *testing.T) {
	forest := BuildForest([]Node{
		node("a", "", "Maths", 0),
		node("x", "", "History", 1),
		node("b", "a", "Year 1", 0),
		node("c", "a", "Year 2", 1),
	})

	t.Run("root node", func(t *testing.T) {
		pid, group, ok := containingGroup(forest, "x")
		require.True(t, ok)
		assert.Empty(t, pid)
		assert.Equal(t, []string{"a", "x"}, forestIDs(group))
	})

	t.Run("child node", func(t *testing.T) {
		pid, group, ok := containingGroup(forest, "c")
		require.True(t, ok)
		assert.Equal(t, "a", pid)
		assert.Equal(t, []string{"b", "c"}, forestIDs(group))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, ok := containingGroup(forest, "nope")
		assert.False(t, ok)
	})
}
