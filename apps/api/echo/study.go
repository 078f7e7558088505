package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/core/study"
)

// nodeOrderingFields are the query fields accepted on GET /study/nodes.
var nodeOrderingFields = []string{"name", "kind", "sort_order", "created_at", "updated_at"}

type studyApi struct {
	svc study.Service
}

func registerStudyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc study.Service) {
	api := studyApi{svc: svc}

	sg := g.Group("/study", jwt)
	sg.GET("/tree", api.tree)
	sg.GET("/kinds", api.queryKinds)
	sg.GET("/nodes", api.query)
	sg.POST("/nodes", api.create)
	sg.GET("/nodes/:id", api.retrieve)
	sg.PUT("/nodes/:id", api.update)
	sg.DELETE("/nodes/:id", api.destroy)
	sg.POST("/nodes/:id/move", api.move)
}

// Handlers

func (api *studyApi) tree(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	forest, err := api.svc.Forest(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "building forest")
	}
	if forest == nil {
		forest = []*study.Node{}
	}
	return ctx.JSON(http.StatusOK, forest)
}

func (api *studyApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ordering := new(Ordering)
	ordering.Bind(ctx)
	ordering.Allow(nodeOrderingFields...)

	nodes, err := api.svc.Query(ctx.Request().Context(), claims.Subject, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying nodes")
	}
	if nodes == nil {
		nodes = []study.Node{}
	}
	return ctx.JSON(http.StatusOK, nodes)
}

func (api *studyApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data study.NewNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNode")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	node, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating node")
	}
	return ctx.JSON(http.StatusCreated, node)
}

func (api *studyApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	node, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding node by ID")
	}
	return ctx.JSON(http.StatusOK, node)
}

func (api *studyApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	node, err := api.svc.GetByID(reqCtx, claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding node by ID")
	}

	var data study.UpdateNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNode")
	}
	if err := data.Validate(node); err != nil {
		return err
	}

	node, err = api.svc.Update(reqCtx, claims.Subject, node.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating node")
	}
	return ctx.JSON(http.StatusOK, node)
}

func (api *studyApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting node")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studyApi) move(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	plan, err := api.svc.Move(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.TargetID, data.Position)
	if err != nil {
		return errors.Wrap(err, "moving node")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyApi) queryKinds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, study.Kinds)
}

type MoveRequest struct {
	TargetID string         `json:"target_id" validate:"required,uuid4"`
	Position study.Position `json:"position" validate:"required,oneof=before inside after"`
}

func (mr *MoveRequest) Validate() error {
	return core.Validate.Struct(mr)
}
