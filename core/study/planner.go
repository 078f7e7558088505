package study

// Position says where a dragged node lands relative to the drop target.
type Position string

const (
	PositionBefore Position = "before"
	PositionInside Position = "inside"
	PositionAfter  Position = "after"
)

func (p Position) Valid() bool {
	switch p {
	case PositionBefore, PositionInside, PositionAfter:
		return true
	}
	return false
}

// SiblingUpdate is a single (id, sortOrder) correction for a node affected by a move.
type SiblingUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// MovePlan is the computed set of updates needed to realize one drag-and-drop
// reorganization: the dragged node's new (parent, sortOrder) plus corrections
// for every affected sibling at the source and destination groups. The plan is
// pure data; applying it atomically is the repository's responsibility.
type MovePlan struct {
	NodeID         string          `json:"id"`
	ParentID       string          `json:"parent_id"`
	SortOrder      int             `json:"sort_order"`
	SiblingUpdates []SiblingUpdate `json:"sibling_updates,omitempty"`
}

// PlanMove computes the MovePlan for dropping draggedID at the given position
// relative to targetID, against a forest snapshot.
//
// Legality is purely structural, never semantic: a move is rejected with
// ErrInvalidMove when the target is the dragged node itself or lies inside the
// dragged node's subtree (which would create a cycle); node kinds are never
// consulted. Unknown ids yield ErrNotFound. No partial plan is ever produced
// for a rejected move.
//
// After applying the plan, both the source and destination sibling groups are
// densely numbered 0..k-1 with no gaps or duplicates.
//
// An `inside` drop on the dragged node's current parent re-appends: the node
// moves to the end of its sibling group; if it is already last the plan simply
// restates its current position with no sibling updates.
func PlanMove(forest []*Node, draggedID, targetID string, pos Position) (MovePlan, error) {
	if !pos.Valid() || draggedID == targetID {
		return MovePlan{}, ErrInvalidMove
	}

	dragged := FindNode(forest, draggedID)
	target := FindNode(forest, targetID)
	if dragged == nil || target == nil {
		return MovePlan{}, ErrNotFound
	}
	if IsDescendant(dragged, targetID) {
		return MovePlan{}, ErrInvalidMove
	}

	var newParentID string
	if pos == PositionInside {
		newParentID = target.ID
	} else {
		newParentID, _, _ = containingGroup(forest, targetID)
	}

	// destination group with the dragged node taken out; insertion index is
	// relative to this reduced group so that "before"/"after" always land the
	// node immediately next to the target, whether the move crosses parents
	// or reorders within one.
	dest := make([]*Node, 0, len(siblingGroup(forest, newParentID))+1)
	for _, n := range siblingGroup(forest, newParentID) {
		if n.ID != draggedID {
			dest = append(dest, n)
		}
	}

	insertAt := len(dest) // inside: append at end
	if pos != PositionInside {
		for i, n := range dest {
			if n.ID == targetID {
				insertAt = i
				if pos == PositionAfter {
					insertAt = i + 1
				}
				break
			}
		}
	}

	plan := MovePlan{NodeID: draggedID, ParentID: newParentID, SortOrder: insertAt}

	// renumber the destination group densely around the insertion point
	for i, n := range dest {
		order := i
		if i >= insertAt {
			order = i + 1
		}
		if n.SortOrder != order {
			plan.SiblingUpdates = append(plan.SiblingUpdates, SiblingUpdate{ID: n.ID, SortOrder: order})
		}
	}

	// a reparent leaves a gap behind: renumber the source group densely too
	oldParentID, oldGroup, _ := containingGroup(forest, draggedID)
	if oldParentID != newParentID {
		i := 0
		for _, n := range oldGroup {
			if n.ID == draggedID {
				continue
			}
			if n.SortOrder != i {
				plan.SiblingUpdates = append(plan.SiblingUpdates, SiblingUpdate{ID: n.ID, SortOrder: i})
			}
			i++
		}
	}

	return plan, nil
}
