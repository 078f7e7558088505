package study_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/core/study"
	"github.com/kud0/mindsy/storage/database/inmem"
	testutil "github.com/kud0/mindsy/tests"
)

const ownerID = "3a0b4257-0c98-4b48-b089-2b030965e524"

func setup(t *testing.T) (study.Service, study.Repository) {
	t.Helper()
	repo := inmem.NewNodeRepository(inmem.Open())
	return study.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	t.Run("root without kind defaults to course", func(t *testing.T) {
		n, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Medicine"})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, study.KindCourse, n.Kind)
		assert.True(t, n.IsRoot())
		assert.Equal(t, 0, n.SortOrder)
	})

	t.Run("siblings append at the end", func(t *testing.T) {
		second, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Law"})
		require.NoError(t, err)
		assert.Equal(t, 1, second.SortOrder)

		third, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Engineering"})
		require.NoError(t, err)
		assert.Equal(t, 2, third.SortOrder)
	})

	t.Run("child kind follows the parent's progression", func(t *testing.T) {
		course, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Biology"})
		require.NoError(t, err)

		year, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Year 1", ParentID: course.ID})
		require.NoError(t, err)
		assert.Equal(t, study.KindYear, year.Kind)
		assert.Equal(t, 0, year.SortOrder)

		subject, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Genetics", ParentID: year.ID})
		require.NoError(t, err)
		assert.Equal(t, study.KindSubject, subject.Kind)
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		course, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Chemistry"})
		require.NoError(t, err)

		n, err := svc.Create(ctx, ownerID, study.NewNode{Name: "Notes", ParentID: course.ID, Kind: study.KindCustom})
		require.NoError(t, err)
		assert.Equal(t, study.KindCustom, n.Kind)
	})

	t.Run("unknown parent is a validation error", func(t *testing.T) {
		_, err := svc.Create(ctx, ownerID, study.NewNode{
			Name:     "Orphan",
			ParentID: "b5a4507e-5d6a-4e4c-9b5c-111111111111",
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "parent_id", vErr.Fields[0].Field)
	})
}

func TestService_Forest(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	t.Run("empty owner", func(t *testing.T) {
		forest, err := svc.Forest(ctx, ownerID)
		require.NoError(t, err)
		assert.Empty(t, forest)
	})

	course := testutil.CreateNode(t, repo, ownerID, "", "Maths", study.KindCourse, 0)
	year1 := testutil.CreateNode(t, repo, ownerID, course.ID, "Year 1", study.KindYear, 0)
	testutil.CreateNode(t, repo, ownerID, course.ID, "Year 2", study.KindYear, 1)
	testutil.CreateNode(t, repo, ownerID, year1.ID, "Algebra", study.KindSubject, 0)

	// someone else's node never leaks in
	testutil.CreateNode(t, repo, "0e8a57a8-9f7a-4d57-b914-222222222222", "", "Other", study.KindCourse, 0)

	forest, err := svc.Forest(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, course.ID, forest[0].ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, "Year 1", forest[0].Children[0].Name)
	assert.Equal(t, "Year 2", forest[0].Children[1].Name)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, "Algebra", forest[0].Children[0].Children[0].Name)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	n := testutil.CreateNode(t, repo, ownerID, "", "Mths", study.KindCourse, 0)

	got, err := svc.Update(ctx, ownerID, n.ID, study.UpdateNode{Name: "Maths", Color: "#ff8800"})
	require.NoError(t, err)
	assert.Equal(t, "Maths", got.Name)
	assert.Equal(t, "#ff8800", got.Color)
	assert.Equal(t, n.Kind, got.Kind)

	t.Run("unknown node", func(t *testing.T) {
		_, err := svc.Update(ctx, ownerID, "f2b6f3e8-17a8-4b9f-a9a1-333333333333", study.UpdateNode{Name: "X"})
		assert.Equal(t, study.ErrNotFound, err)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	course := testutil.CreateNode(t, repo, ownerID, "", "Maths", study.KindCourse, 0)
	year1 := testutil.CreateNode(t, repo, ownerID, course.ID, "Year 1", study.KindYear, 0)
	year2 := testutil.CreateNode(t, repo, ownerID, course.ID, "Year 2", study.KindYear, 1)
	year3 := testutil.CreateNode(t, repo, ownerID, course.ID, "Year 3", study.KindYear, 2)
	testutil.CreateNode(t, repo, ownerID, year2.ID, "Algebra", study.KindSubject, 0)

	require.NoError(t, svc.Delete(ctx, ownerID, year2.ID))

	nodes, err := svc.Query(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3) // subtree went with it

	// survivors repacked densely
	forest, err := svc.Forest(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, year1.ID, forest[0].Children[0].ID)
	assert.Equal(t, 0, forest[0].Children[0].SortOrder)
	assert.Equal(t, year3.ID, forest[0].Children[1].ID)
	assert.Equal(t, 1, forest[0].Children[1].SortOrder)

	t.Run("unknown node", func(t *testing.T) {
		assert.Equal(t, study.ErrNotFound, svc.Delete(ctx, ownerID, year2.ID))
	})

	t.Run("wrong owner", func(t *testing.T) {
		err := svc.Delete(ctx, "0e8a57a8-9f7a-4d57-b914-222222222222", course.ID)
		assert.Equal(t, study.ErrNotFound, err)
	})
}

func TestService_Move(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	maths := testutil.CreateNode(t, repo, ownerID, "", "Maths", study.KindCourse, 0)
	history := testutil.CreateNode(t, repo, ownerID, "", "History", study.KindCourse, 1)
	year1 := testutil.CreateNode(t, repo, ownerID, maths.ID, "Year 1", study.KindYear, 0)
	year2 := testutil.CreateNode(t, repo, ownerID, maths.ID, "Year 2", study.KindYear, 1)

	t.Run("reorder within a parent", func(t *testing.T) {
		plan, err := svc.Move(ctx, ownerID, year2.ID, year1.ID, study.PositionBefore)
		require.NoError(t, err)
		assert.Equal(t, maths.ID, plan.ParentID)
		assert.Equal(t, 0, plan.SortOrder)

		forest, err := svc.Forest(ctx, ownerID)
		require.NoError(t, err)
		children := study.FindNode(forest, maths.ID).Children
		require.Len(t, children, 2)
		assert.Equal(t, year2.ID, children[0].ID)
		assert.Equal(t, year1.ID, children[1].ID)
	})

	t.Run("reparent", func(t *testing.T) {
		plan, err := svc.Move(ctx, ownerID, year1.ID, history.ID, study.PositionInside)
		require.NoError(t, err)
		assert.Equal(t, history.ID, plan.ParentID)
		assert.Equal(t, 0, plan.SortOrder)

		forest, err := svc.Forest(ctx, ownerID)
		require.NoError(t, err)
		assert.Len(t, study.FindNode(forest, maths.ID).Children, 1)
		assert.Equal(t, 0, study.FindNode(forest, year2.ID).SortOrder)
		require.Len(t, study.FindNode(forest, history.ID).Children, 1)
	})

	t.Run("cycle is rejected and nothing changes", func(t *testing.T) {
		before, err := svc.Query(ctx, ownerID)
		require.NoError(t, err)

		_, err = svc.Move(ctx, ownerID, history.ID, year1.ID, study.PositionInside)
		assert.Equal(t, study.ErrInvalidMove, err)

		after, err := svc.Query(ctx, ownerID)
		require.NoError(t, err)
		assert.ElementsMatch(t, before, after)
	})

	t.Run("unknown dragged node", func(t *testing.T) {
		_, err := svc.Move(ctx, ownerID, "6cf6a8ab-ecaf-46cd-9d46-444444444444", maths.ID, study.PositionInside)
		assert.Equal(t, study.ErrNotFound, err)
	})

	t.Run("unknown target node", func(t *testing.T) {
		_, err := svc.Move(ctx, ownerID, maths.ID, "6cf6a8ab-ecaf-46cd-9d46-444444444444", study.PositionAfter)
		assert.Equal(t, study.ErrNotFound, err)
	})

	t.Run("invalid position", func(t *testing.T) {
		_, err := svc.Move(ctx, ownerID, maths.ID, history.ID, study.Position("sideways"))
		assert.Equal(t, study.ErrInvalidMove, err)
	})
}
