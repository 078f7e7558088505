package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/core/study"
)

type nodeRepository struct {
	db *DB
}

var _ study.Repository = (*nodeRepository)(nil) // interface compliance check

func NewNodeRepository(db *DB) *nodeRepository {
	return &nodeRepository{db: db}
}

func (repo nodeRepository) CreateNode(_ context.Context, n study.Node) (study.Node, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n.ID = uuid.New().String()
	n.Children = nil
	repo.db.nodes[n.ID] = n
	return n, nil
}

func (repo nodeRepository) QueryAllNodes(_ context.Context, ownerID string, ordering ...core.DBOrdering) ([]study.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	nodes := make([]study.Node, 0)
	for _, n := range repo.db.nodes {
		if n.OwnerID == ownerID {
			nodes = append(nodes, n)
		}
	}
	if len(ordering) > 0 {
		sortNodes(nodes, ordering)
	}
	return nodes, nil
}

func (repo nodeRepository) GetNodeByID(_ context.Context, ownerID, id string) (study.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if n, ok := repo.db.nodes[id]; ok && n.OwnerID == ownerID {
		return n, nil
	}
	return study.Node{}, study.ErrNotFound
}

func (repo nodeRepository) UpdateNode(_ context.Context, n study.Node) (study.Node, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.nodes[n.ID]
	if !ok || orig.OwnerID != n.OwnerID {
		return study.Node{}, study.ErrNotFound
	}
	if n.Name != "" {
		orig.Name = n.Name
	}
	if n.Kind != "" {
		orig.Kind = n.Kind
	}
	orig.Color = n.Color
	orig.Description = n.Description
	if !n.UpdatedAt.IsZero() {
		orig.UpdatedAt = n.UpdatedAt
	}
	repo.db.nodes[orig.ID] = orig
	return orig, nil
}

func (repo nodeRepository) DeleteNodeByID(_ context.Context, ownerID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	node, ok := repo.db.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return study.ErrNotFound
	}

	// cascade to descendants
	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		for _, n := range repo.db.nodes {
			if n.OwnerID == ownerID && n.ParentID == doomed[i] {
				doomed = append(doomed, n.ID)
			}
		}
	}
	for _, did := range doomed {
		delete(repo.db.nodes, did)
	}

	repo.renumberSiblings(ownerID, node.ParentID)
	return nil
}

func (repo nodeRepository) CountChildren(_ context.Context, ownerID, parentID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, n := range repo.db.nodes {
		if n.OwnerID == ownerID && n.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

func (repo nodeRepository) ApplyMovePlan(_ context.Context, ownerID string, plan study.MovePlan) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	node, ok := repo.db.nodes[plan.NodeID]
	if !ok || node.OwnerID != ownerID {
		return study.ErrNotFound
	}
	node.ParentID = plan.ParentID
	node.SortOrder = plan.SortOrder
	repo.db.nodes[node.ID] = node

	for _, upd := range plan.SiblingUpdates {
		sib, ok := repo.db.nodes[upd.ID]
		if !ok || sib.OwnerID != ownerID {
			return study.ErrNotFound
		}
		sib.SortOrder = upd.SortOrder
		repo.db.nodes[sib.ID] = sib
	}
	return nil
}

// renumberSiblings densely repacks a sibling group after a removal.
// Callers must hold the write lock.
func (repo nodeRepository) renumberSiblings(ownerID, parentID string) {
	group := make([]study.Node, 0)
	for _, n := range repo.db.nodes {
		if n.OwnerID == ownerID && n.ParentID == parentID {
			group = append(group, n)
		}
	}
	sort.Slice(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	for i, n := range group {
		if n.SortOrder != i {
			n.SortOrder = i
			repo.db.nodes[n.ID] = n
		}
	}
}

func sortNodes(nodes []study.Node, ordering []core.DBOrdering) {
	sort.SliceStable(nodes, func(i, j int) bool {
		for _, ord := range ordering {
			a, b := fieldValue(nodes[i], ord.Field), fieldValue(nodes[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

func fieldValue(n study.Node, field string) string {
	switch field {
	case "name":
		return strings.ToLower(n.Name)
	case "kind":
		return string(n.Kind)
	case "created_at":
		return n.CreatedAt.Format("2006-01-02T15:04:05.000000000")
	case "updated_at":
		return n.UpdatedAt.Format("2006-01-02T15:04:05.000000000")
	default:
		return ""
	}
}
