package study

import (
	"sort"
	"strings"
)

// BuildForest converts a flat set of nodes into a rooted forest.
//
// Every input node appears exactly once in the output, either as a root or as
// exactly one parent's child. A node whose ParentID is empty, dangling (parent
// absent from the input set) or self-referential becomes a root: the backing
// store may be transiently inconsistent and the tree must always be
// reconstructible from it. Input nodes are never mutated; the forest is built
// from copies.
//
// Children of a given parent are ordered by ascending SortOrder, ties broken
// by case-insensitive name, then by ID, so rebuilding from the same flat list
// always yields a structurally identical forest.
func BuildForest(flat []Node) []*Node {
	byID := make(map[string]*Node, len(flat))
	for i := range flat {
		n := flat[i] // copy
		n.Children = nil
		byID[n.ID] = &n
	}

	roots := make([]*Node, 0, len(byID))
	for _, n := range byID {
		if n.ParentID != "" {
			if parent, ok := byID[n.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n) // root or promoted orphan
	}

	sortSiblings(roots)
	for _, n := range byID {
		sortSiblings(n.Children)
	}
	return roots
}

func sortSiblings(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

// IsDescendant reports whether candidateID appears anywhere in node's subtree,
// excluding node itself. It must be called on a materialized forest node (post
// BuildForest): it follows resolved Children, not ParentID links.
//
// This is the sole guard keeping the parent relation acyclic: a node may never
// be reparented under a member of its own subtree.
func IsDescendant(node *Node, candidateID string) bool {
	if node == nil {
		return false
	}
	for _, child := range node.Children {
		if child.ID == candidateID || IsDescendant(child, candidateID) {
			return true
		}
	}
	return false
}

// FindNode returns the node with the given id anywhere in the forest, or nil.
func FindNode(forest []*Node, id string) *Node {
	for _, n := range forest {
		if n.ID == id {
			return n
		}
		if found := FindNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// siblingGroup returns the group of nodes sharing the given parent:
// the forest roots for an empty parentID, the parent's children otherwise.
func siblingGroup(forest []*Node, parentID string) []*Node {
	if parentID == "" {
		return forest
	}
	if parent := FindNode(forest, parentID); parent != nil {
		return parent.Children
	}
	return nil
}

// containingGroup locates the sibling group that holds id, returning the
// materialized parent's ID ("" for roots) and the group itself.
func containingGroup(forest []*Node, id string) (string, []*Node, bool) {
	for _, n := range forest {
		if n.ID == id {
			return "", forest, true
		}
	}
	var walk func(parent *Node) (string, []*Node, bool)
	walk = func(parent *Node) (string, []*Node, bool) {
		for _, child := range parent.Children {
			if child.ID == id {
				return parent.ID, parent.Children, true
			}
			if pid, group, ok := walk(child); ok {
				return pid, group, ok
			}
		}
		return "", nil, false
	}
	for _, n := range forest {
		if pid, group, ok := walk(n); ok {
			return pid, group, ok
		}
	}
	return "", nil, false
}
