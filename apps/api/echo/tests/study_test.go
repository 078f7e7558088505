package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kud0/mindsy/core/study"
	testutil "github.com/kud0/mindsy/tests"
)

func Test_studyApi_tree(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Hawi Ali", "hawiali", "hawi@mindsy.test", "LePassword123", true)
	other := testutil.CreateUser(t, usrRepo, "Other One", "otherone", "other@mindsy.test", "LePassword123", true)
	token := getToken(t, usr)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/study/tree")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("empty forest", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/tree", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	maths := testutil.CreateNode(t, nodeRepo, usr.ID, "", "Maths", study.KindCourse, 0)
	year1 := testutil.CreateNode(t, nodeRepo, usr.ID, maths.ID, "Year 1", study.KindYear, 0)
	testutil.CreateNode(t, nodeRepo, usr.ID, maths.ID, "Year 2", study.KindYear, 1)
	testutil.CreateNode(t, nodeRepo, other.ID, "", "Not Yours", study.KindCourse, 0)

	t.Run("nested forest scoped to owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/tree", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var forest []*study.Node
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forest))
		require.Len(t, forest, 1)
		assert.Equal(t, maths.ID, forest[0].ID)
		require.Len(t, forest[0].Children, 2)
		assert.Equal(t, year1.ID, forest[0].Children[0].ID)
		assert.NotContains(t, rec.Body.String(), "Not Yours")
	})
}

func Test_studyApi_nodeCRUD(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Hawi Ali", "hawiali", "hawi@mindsy.test", "LePassword123", true)
	token := getToken(t, usr)

	var course study.Node

	t.Run("create root", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Medicine"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes", token, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &course))
		assert.Equal(t, study.KindCourse, course.Kind)
		assert.Equal(t, 0, course.SortOrder)
	})

	t.Run("create child inherits next kind", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Year 1", "parent_id": course.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes", token, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var child study.Node
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &child))
		assert.Equal(t, study.KindYear, child.Kind)
		assert.Equal(t, course.ID, child.ParentID)
	})

	t.Run("create with unknown parent", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Lost", "parent_id": "7b6cfb1e-3c21-4397-9hop-nope"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes", token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create without name", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"kind": "course"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes", token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name")
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes/"+course.ID, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Medicine")
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes/da52a66f-b6ad-4769-8c5a-555555555555", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("someone else's node is not found", func(t *testing.T) {
		other := testutil.CreateUser(t, usrRepo, "Other One", "otherone", "other@mindsy.test", "LePassword123", true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes/"+course.ID, getToken(t, other))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Human Medicine", "color": "#00AACC"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/study/nodes/"+course.ID, token, body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got study.Node
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Human Medicine", got.Name)
		assert.Equal(t, "#00aacc", got.Color)
		assert.Equal(t, study.KindCourse, got.Kind) // untouched
	})

	t.Run("update with bad kind", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"kind": "folder"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/study/nodes/"+course.ID, token, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete cascades", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/study/nodes/"+course.ID, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		nodes, err := nodeRepo.QueryAllNodes(context.Background(), usr.ID)
		require.NoError(t, err)
		assert.Empty(t, nodes) // children went with it
	})

	t.Run("delete unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/study/nodes/"+course.ID, token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_studyApi_nodeQuery(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Hawi Ali", "hawiali", "hawi@mindsy.test", "LePassword123", true)
	token := getToken(t, usr)

	testutil.CreateNode(t, nodeRepo, usr.ID, "", "Zoology", study.KindCourse, 1)
	testutil.CreateNode(t, nodeRepo, usr.ID, "", "Anatomy", study.KindCourse, 0)

	t.Run("flat list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var nodes []study.Node
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
		assert.Len(t, nodes, 2)
	})

	t.Run("ordered by name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes?ordering=name", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var nodes []study.Node
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
		require.Len(t, nodes, 2)
		assert.Equal(t, "Anatomy", nodes[0].Name)
		assert.Equal(t, "Zoology", nodes[1].Name)
	})

	t.Run("unknown ordering field is ignored", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/study/nodes?ordering=password_hash", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_studyApi_move(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Hawi Ali", "hawiali", "hawi@mindsy.test", "LePassword123", true)
	token := getToken(t, usr)

	maths := testutil.CreateNode(t, nodeRepo, usr.ID, "", "Maths", study.KindCourse, 0)
	history := testutil.CreateNode(t, nodeRepo, usr.ID, "", "History", study.KindCourse, 1)
	year1 := testutil.CreateNode(t, nodeRepo, usr.ID, maths.ID, "Year 1", study.KindYear, 0)

	moveBody := func(targetID string, pos study.Position) []byte {
		return marshallObj(t, map[string]interface{}{"target_id": targetID, "position": pos})
	}

	t.Run("reparent inside", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+year1.ID+"/move", token, moveBody(history.ID, study.PositionInside))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var plan study.MovePlan
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
		assert.Equal(t, year1.ID, plan.NodeID)
		assert.Equal(t, history.ID, plan.ParentID)
		assert.Equal(t, 0, plan.SortOrder)

		got, err := nodeRepo.GetNodeByID(context.Background(), usr.ID, year1.ID)
		require.NoError(t, err)
		assert.Equal(t, history.ID, got.ParentID)
	})

	t.Run("reorder before", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+history.ID+"/move", token, moveBody(maths.ID, study.PositionBefore))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got, err := nodeRepo.GetNodeByID(context.Background(), usr.ID, history.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.SortOrder)
	})

	t.Run("cycle rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+history.ID+"/move", token, moveBody(year1.ID, study.PositionInside))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("self target rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+maths.ID+"/move", token, moveBody(maths.ID, study.PositionAfter))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+maths.ID+"/move", token, moveBody("da52a66f-b6ad-4769-8c5a-555555555555", study.PositionAfter))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad position", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/study/nodes/"+maths.ID+"/move", token, moveBody(history.ID, "sideways"))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_studyApi_kinds(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Hawi Ali", "hawiali", "hawi@mindsy.test", "LePassword123", true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/study/kinds", getToken(t, usr))
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, study.Kinds)}, rec)
}
