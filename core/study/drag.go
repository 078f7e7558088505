package study

// DragState is the lifecycle state of a drag-and-drop gesture.
type DragState int

const (
	StateIdle DragState = iota
	StateDragging
	StateHoveringValid
	StateHoveringInvalid
)

func (s DragState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateHoveringValid:
		return "hovering-valid"
	case StateHoveringInvalid:
		return "hovering-invalid"
	}
	return "unknown"
}

// DragSession tracks a single in-flight drag gesture: which node is being
// dragged, which target+position it last hovered and whether that pending
// drop is legal. It only ever reflects the last hover; there is no history.
//
// At most one session is active at a time and it is driven from a single
// goroutine. Hover transitions are purely local state: the only call with
// external effect is the legal-drop path of Drop, which computes a MovePlan.
type DragSession struct {
	state     DragState
	draggedID string
	targetID  string
	position  Position
}

func NewDragSession() *DragSession {
	return &DragSession{state: StateIdle}
}

func (s *DragSession) State() DragState { return s.state }
func (s *DragSession) DraggedID() string {
	if s.state == StateIdle {
		return ""
	}
	return s.draggedID
}

// Start begins dragging the given node. Starting over an active session
// implicitly cancels it; the interaction layer cannot produce two concurrent
// drags.
func (s *DragSession) Start(nodeID string) {
	s.reset()
	if nodeID == "" {
		return
	}
	s.state = StateDragging
	s.draggedID = nodeID
}

// HoverOver records the candidate target+position under the pointer and
// recomputes drop legality against the forest snapshot. The pending drop is
// illegal when the target is the dragged node itself, sits inside the dragged
// node's subtree, or either node has vanished from the forest (removed
// mid-drag).
func (s *DragSession) HoverOver(forest []*Node, targetID string, pos Position) DragState {
	if s.state == StateIdle {
		return s.state
	}

	s.targetID = targetID
	s.position = pos
	if s.legal(forest, targetID, pos) {
		s.state = StateHoveringValid
	} else {
		s.state = StateHoveringInvalid
	}
	return s.state
}

func (s *DragSession) legal(forest []*Node, targetID string, pos Position) bool {
	if !pos.Valid() || targetID == "" || targetID == s.draggedID {
		return false
	}
	dragged := FindNode(forest, s.draggedID)
	if dragged == nil || FindNode(forest, targetID) == nil {
		return false
	}
	return !IsDescendant(dragged, targetID)
}

// Drop ends the session. If the last hover was legal it computes the MovePlan
// for the recorded target+position against the forest snapshot; any other
// state (never hovered, hovering an illegal target) yields ErrInvalidMove and
// no plan. The session returns to idle either way.
func (s *DragSession) Drop(forest []*Node) (MovePlan, error) {
	defer s.reset()
	if s.state != StateHoveringValid {
		return MovePlan{}, ErrInvalidMove
	}
	return PlanMove(forest, s.draggedID, s.targetID, s.position)
}

// Cancel aborts the gesture (escape, drop outside any target, source removed
// mid-drag) without producing a plan.
func (s *DragSession) Cancel() {
	s.reset()
}

func (s *DragSession) reset() {
	*s = DragSession{state: StateIdle}
}
