package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/core/study"
)

// renumberSiblingsQuery densely repacks a sibling group's sort orders after a
// removal, using the same ordering BuildForest materializes siblings with.
const renumberSiblingsQuery = `
WITH ranked AS (
    SELECT id, row_number() OVER (ORDER BY sort_order, lower(name), id) - 1 AS new_order
    FROM study_node
    WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2
)
UPDATE study_node sn
SET sort_order = r.new_order
FROM ranked r
WHERE sn.id = r.id AND sn.sort_order <> r.new_order`

type nodeRow struct {
	ID          string      `db:"id"`
	OwnerID     string      `db:"owner_id"`
	ParentID    null.String `db:"parent_id"`
	Name        string      `db:"name"`
	Kind        string      `db:"kind"`
	SortOrder   int         `db:"sort_order"`
	Color       string      `db:"color"`
	Description string      `db:"description"`
	CreatedAt   null.Time   `db:"created_at"`
	UpdatedAt   null.Time   `db:"updated_at"`
}

type nodeRepository struct {
	db *sqlx.DB
}

var _ study.Repository = (*nodeRepository)(nil) // interface compliance check

func NewNodeRepository(db *sqlx.DB) *nodeRepository {
	return &nodeRepository{db: db}
}

func (repo nodeRepository) row(n study.Node) nodeRow {
	return nodeRow{
		ID:          n.ID,
		OwnerID:     n.OwnerID,
		ParentID:    null.NewString(n.ParentID, n.ParentID != ""),
		Name:        n.Name,
		Kind:        string(n.Kind),
		SortOrder:   n.SortOrder,
		Color:       n.Color,
		Description: n.Description,
		CreatedAt:   null.NewTime(n.CreatedAt.UTC(), !n.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(n.UpdatedAt.UTC(), !n.UpdatedAt.IsZero()),
	}
}

func (repo nodeRepository) unrow(r nodeRow) study.Node {
	return study.Node{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		ParentID:    r.ParentID.String,
		Name:        r.Name,
		Kind:        study.Kind(r.Kind),
		SortOrder:   r.SortOrder,
		Color:       r.Color,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

func (repo nodeRepository) unrowSlice(rows []nodeRow) []study.Node {
	nodes := make([]study.Node, 0, len(rows))
	for _, r := range rows {
		nodes = append(nodes, repo.unrow(r))
	}
	return nodes
}

// trapNoRowsErr maps psql "no rows" err to study.ErrNotFound
func (repo nodeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return study.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo nodeRepository) CreateNode(ctx context.Context, n study.Node) (study.Node, error) {
	n.ID = uuid.New().String()
	r := repo.row(n)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO study_node (id, owner_id, parent_id, name, kind, sort_order, color, description, created_at, updated_at)
		VALUES (:id, :owner_id, :parent_id, :name, :kind, :sort_order, :color, :description, :created_at, :updated_at)`, r)
	if err != nil {
		return study.Node{}, errors.Wrap(err, "inserting node")
	}
	return repo.unrow(r), nil
}

func (repo nodeRepository) QueryAllNodes(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]study.Node, error) {
	query := `SELECT * FROM study_node WHERE owner_id = $1`
	if len(ordering) > 0 {
		clauses := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			clauses = append(clauses, ord.String())
		}
		query += " ORDER BY " + strings.Join(clauses, ", ")
	}

	var rows []nodeRow
	if err := repo.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying nodes")
	}
	return repo.unrowSlice(rows), nil
}

func (repo nodeRepository) GetNodeByID(ctx context.Context, ownerID, id string) (study.Node, error) {
	var r nodeRow
	err := repo.db.GetContext(ctx, &r, `SELECT * FROM study_node WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return study.Node{}, repo.trapNoRowsErr(err, "getting node by ID")
	}
	return repo.unrow(r), nil
}

func (repo nodeRepository) UpdateNode(ctx context.Context, n study.Node) (study.Node, error) {
	var r nodeRow
	err := repo.db.QueryRowxContext(ctx, `
		UPDATE study_node
		SET name        = COALESCE(NULLIF($3, ''), name),
		    kind        = COALESCE(NULLIF($4, ''), kind),
		    color       = $5,
		    description = $6,
		    updated_at  = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING *`,
		n.OwnerID, n.ID, n.Name, string(n.Kind), n.Color, n.Description,
	).StructScan(&r)
	if err != nil {
		return study.Node{}, repo.trapNoRowsErr(err, "updating node")
	}
	return repo.unrow(r), nil
}

func (repo nodeRepository) DeleteNodeByID(ctx context.Context, ownerID, id string) error {
	node, err := repo.GetNodeByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	// descendants go with it (ON DELETE CASCADE)
	if _, err = tx.ExecContext(ctx, `DELETE FROM study_node WHERE owner_id = $1 AND id = $2`, ownerID, id); err != nil {
		return errors.Wrap(err, "deleting node")
	}

	// the survivors of its sibling group must stay densely numbered
	parentID := null.NewString(node.ParentID, node.ParentID != "")
	if _, err = tx.ExecContext(ctx, renumberSiblingsQuery, ownerID, parentID); err != nil {
		return errors.Wrap(err, "renumbering siblings")
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func (repo nodeRepository) CountChildren(ctx context.Context, ownerID, parentID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT count(*) FROM study_node WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2`,
		ownerID, null.NewString(parentID, parentID != ""))
	if err != nil {
		return 0, errors.Wrap(err, "counting children")
	}
	return count, nil
}

func (repo nodeRepository) ApplyMovePlan(ctx context.Context, ownerID string, plan study.MovePlan) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE study_node
		SET parent_id = $3, sort_order = $4, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		ownerID, plan.NodeID, null.NewString(plan.ParentID, plan.ParentID != ""), plan.SortOrder)
	if err != nil {
		return errors.Wrap(err, "moving node")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return study.ErrNotFound
	}

	for _, upd := range plan.SiblingUpdates {
		if _, err = tx.ExecContext(ctx, `
			UPDATE study_node SET sort_order = $3 WHERE owner_id = $1 AND id = $2`,
			ownerID, upd.ID, upd.SortOrder); err != nil {
			return errors.Wrap(err, "updating sibling sort order")
		}
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}
