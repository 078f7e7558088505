package study

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kud0/mindsy/core"
)

var (
	ErrNotFound    = errors.New("study node not found")
	ErrInvalidMove = errors.New("a node cannot be moved onto itself or into its own subtree")

	errParentNotFound = "parent node not found"
)

type (
	// Repository owns the authoritative flat list of (id, parentId, sortOrder)
	// triples. The forest view is always re-derived from it via BuildForest.
	Repository interface {
		CreateNode(ctx context.Context, n Node) (Node, error)
		// QueryAllNodes returns all nodes owned by ownerID, in any order
		// unless an explicit ordering is given.
		QueryAllNodes(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]Node, error)
		GetNodeByID(ctx context.Context, ownerID, id string) (Node, error)
		UpdateNode(ctx context.Context, n Node) (Node, error)
		// DeleteNodeByID removes the node and all its descendants, then
		// renumbers the surviving sibling group densely, as one atomic unit.
		DeleteNodeByID(ctx context.Context, ownerID, id string) error
		CountChildren(ctx context.Context, ownerID, parentID string) (int, error)
		// ApplyMovePlan applies all of the plan's updates as a single atomic
		// unit; partial application would corrupt sibling sort orders.
		ApplyMovePlan(ctx context.Context, ownerID string, plan MovePlan) error
	}

	Service interface {
		Create(ctx context.Context, ownerID string, nn NewNode) (Node, error)
		Query(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]Node, error)
		Forest(ctx context.Context, ownerID string) ([]*Node, error)
		GetByID(ctx context.Context, ownerID, id string) (Node, error)
		Update(ctx context.Context, ownerID, id string, un UpdateNode) (Node, error)
		Delete(ctx context.Context, ownerID, id string) error
		Move(ctx context.Context, ownerID, draggedID, targetID string, pos Position) (MovePlan, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create appends the new node at the end of its sibling group, keeping the
// group densely numbered. A node created without an explicit kind takes the
// next kind in the course -> year -> subject -> semester -> custom progression
// (course at the root).
func (svc *service) Create(ctx context.Context, ownerID string, nn NewNode) (Node, error) {
	kind := nn.Kind
	if nn.ParentID != "" {
		parent, err := svc.repo.GetNodeByID(ctx, ownerID, nn.ParentID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return Node{}, core.NewValidationError(err, core.FieldError{Field: "parent_id", Error: errParentNotFound})
			}
			return Node{}, errors.Wrap(err, "getting parent node")
		}
		if kind == "" {
			kind = parent.Kind.Next()
		}
	} else if kind == "" {
		kind = KindCourse
	}

	sortOrder, err := svc.repo.CountChildren(ctx, ownerID, nn.ParentID)
	if err != nil {
		return Node{}, errors.Wrap(err, "counting siblings")
	}

	now := time.Now().UTC()
	return svc.repo.CreateNode(ctx, Node{
		OwnerID:     ownerID,
		ParentID:    nn.ParentID,
		Name:        nn.Name,
		Kind:        kind,
		SortOrder:   sortOrder,
		Color:       nn.Color,
		Description: nn.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) Query(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]Node, error) {
	return svc.repo.QueryAllNodes(ctx, ownerID, ordering...)
}

// Forest fetches the authoritative flat list and materializes the forest view.
func (svc *service) Forest(ctx context.Context, ownerID string) ([]*Node, error) {
	flat, err := svc.repo.QueryAllNodes(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "querying nodes")
	}
	return BuildForest(flat), nil
}

func (svc *service) GetByID(ctx context.Context, ownerID, id string) (Node, error) {
	return svc.repo.GetNodeByID(ctx, ownerID, id)
}

func (svc *service) Update(ctx context.Context, ownerID, id string, un UpdateNode) (Node, error) {
	return svc.repo.UpdateNode(ctx, Node{
		ID:          id,
		OwnerID:     ownerID,
		Name:        un.Name,
		Kind:        un.Kind,
		Color:       un.Color,
		Description: un.Description,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (svc *service) Delete(ctx context.Context, ownerID, id string) error {
	return svc.repo.DeleteNodeByID(ctx, ownerID, id)
}

// Move rebuilds the forest from the authoritative flat list, checks the drop's
// legality, computes the MovePlan and submits it to the repository as one
// atomic unit. On failure the caller must re-fetch and rebuild; stale local
// state is never patched up.
func (svc *service) Move(ctx context.Context, ownerID, draggedID, targetID string, pos Position) (MovePlan, error) {
	forest, err := svc.Forest(ctx, ownerID)
	if err != nil {
		return MovePlan{}, err
	}

	if FindNode(forest, draggedID) == nil || FindNode(forest, targetID) == nil {
		return MovePlan{}, ErrNotFound
	}

	session := NewDragSession()
	session.Start(draggedID)
	session.HoverOver(forest, targetID, pos)
	plan, err := session.Drop(forest)
	if err != nil {
		return MovePlan{}, err
	}

	if err = svc.repo.ApplyMovePlan(ctx, ownerID, plan); err != nil {
		return MovePlan{}, errors.Wrap(err, "applying move plan")
	}
	return plan, nil
}
