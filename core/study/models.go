package study

import (
	"time"

	"github.com/kud0/mindsy/core"
)

// Kinds
const (
	KindCourse   Kind = "course"
	KindYear     Kind = "year"
	KindSubject  Kind = "subject"
	KindSemester Kind = "semester"
	KindCustom   Kind = "custom"
)

var (
	Kinds = []Kind{KindCourse, KindYear, KindSubject, KindSemester, KindCustom}

	// nextKinds drives the default kind of a newly created child:
	// course -> year -> subject -> semester -> custom.
	// Purely cosmetic defaulting; never constrains tree shape.
	nextKinds = map[Kind]Kind{
		KindCourse:   KindYear,
		KindYear:     KindSubject,
		KindSubject:  KindSemester,
		KindSemester: KindCustom,
		KindCustom:   KindCustom,
	}
)

type Kind string

func (k Kind) Valid() bool {
	_, ok := nextKinds[k]
	return ok
}

// Next returns the default kind for a child of a node of this kind.
func (k Kind) Next() Kind {
	if next, ok := nextKinds[k]; ok {
		return next
	}
	return KindCustom
}

// Node is a single folder-like organizational unit in a user's study hierarchy.
// The flat (ID, ParentID, SortOrder) triples owned by the repository are the
// source of truth; Children is only ever populated transiently by BuildForest.
type Node struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	ParentID    string    `json:"parent_id,omitempty"` // empty = root
	Name        string    `json:"name"`
	Kind        Kind      `json:"kind"`
	SortOrder   int       `json:"sort_order"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC

	Children []*Node `json:"children,omitempty"` // computed, not stored
}

func (n *Node) IsRoot() bool { return n.ParentID == "" }

// NewNode contains information needed to create a new Node.
type NewNode struct {
	Name        string `json:"name" validate:"required"`
	Kind        Kind   `json:"kind" validate:"omitempty,nodekind"`
	ParentID    string `json:"parent_id" validate:"omitempty,uuid4"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Description string `json:"description"`
}

func (nn *NewNode) Validate() error {
	nn.Name = core.CleanString(nn.Name)
	nn.ParentID = core.CleanString(nn.ParentID, true /* lower */)
	nn.Color = core.CleanString(nn.Color, true /* lower */)
	nn.Description = core.CleanString(nn.Description)
	return core.Validate.Struct(nn)
}

// UpdateNode defines what information may be provided to modify an existing Node.
// Reparenting and reordering go through Service.Move, never through updates.
type UpdateNode struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind" validate:"omitempty,nodekind"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Description string `json:"description"`
}

func (un *UpdateNode) Validate(origNode Node) error {
	name := core.CleanString(un.Name)
	if name != "" {
		un.Name = name
	} else {
		un.Name = origNode.Name
	}
	if un.Kind == "" {
		un.Kind = origNode.Kind
	}

	un.Color = core.CleanString(un.Color, true /* lower */)
	if un.Color == "" {
		un.Color = origNode.Color
	}
	un.Description = core.CleanString(un.Description)
	if un.Description == "" {
		un.Description = origNode.Description
	}
	return core.Validate.Struct(un)
}
