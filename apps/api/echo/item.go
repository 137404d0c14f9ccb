package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
)

var errItemNotFoundInCtx = errors.New("item object not found in echo.Context")

type itemApi struct {
	svc     *stageplot.Service
	docSvc  *document.Service
	userSvc *user.Service
}

func registerItemAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *stageplot.Service,
	docSvc *document.Service,
	userSvc *user.Service,
) {
	api := itemApi{svc: svc, docSvc: docSvc, userSvc: userSvc}

	g.GET("/icons", api.queryIcons, jwt)

	ig := g.Group("/items", jwt)

	// detail endpoints
	dg := ig.Group("/:id", ctxItemOwnerOrAdminMiddleware(svc, docSvc, userSvc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PUT("/move", api.move)
	dg.POST("/rotate", api.rotate)
	dg.POST("/pair", api.pair)
	dg.DELETE("/pair", api.unpair)
}

// ctxItemOwnerOrAdminMiddleware loads the item at :id into the context under
// "object". Only the owner of the item's document and admins get through;
// everyone else gets a 404.
func ctxItemOwnerOrAdminMiddleware(svc *stageplot.Service, docSvc *document.Service, userSvc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, userSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			item, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == stageplot.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding item by ID")
			}

			doc, err := docSvc.GetByID(ctx.Request().Context(), item.DocumentID)
			if err != nil {
				return errors.Wrap(err, "finding item document")
			}
			if doc.OwnerID != ctxUsr.ID && !ctxUsr.IsAdmin() {
				return errHttpNotFound
			}
			ctx.Set("object", item)
			return next(ctx)
		}
	}
}

// Handlers

func (api *itemApi) queryIcons(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, stageplot.IconDefs())
}

func (api *itemApi) retrieve(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *itemApi) update(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	var data stageplot.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	item, err := api.svc.Update(ctx.Request().Context(), item.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *itemApi) destroy(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), item.ID); err != nil {
		return errors.Wrap(err, "deleting item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *itemApi) move(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}

	item, err := api.svc.Move(ctx.Request().Context(), item.ID, data.PositionX, data.PositionY)
	if err != nil {
		return errors.Wrap(err, "moving item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *itemApi) rotate(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	var data RotateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RotateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	item, err := api.svc.Rotate(ctx.Request().Context(), item.ID, data.Direction)
	if err != nil {
		return errors.Wrap(err, "rotating item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *itemApi) pair(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	var data stageplot.PairRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PairRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.Pair(ctx.Request().Context(), item.ID, data.TargetID); err != nil {
		return errors.Wrap(err, "pairing items")
	}

	item, err := api.svc.GetByID(ctx.Request().Context(), item.ID)
	if err != nil {
		return errors.Wrap(err, "finding item by ID")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *itemApi) unpair(ctx echo.Context) error {
	item, ok := ctx.Get("object").(stageplot.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Unpair(ctx.Request().Context(), item.ID); err != nil {
		return errors.Wrap(err, "unpairing item")
	}

	item, err := api.svc.GetByID(ctx.Request().Context(), item.ID)
	if err != nil {
		return errors.Wrap(err, "finding item by ID")
	}
	return ctx.JSON(http.StatusOK, item)
}

type (
	MoveRequest struct {
		PositionX float64 `json:"position_x"`
		PositionY float64 `json:"position_y"`
	}

	RotateRequest struct {
		Direction stageplot.RotateDirection `json:"direction" validate:"required,oneof=left right"`
	}
)

func (rr *RotateRequest) Validate() error {
	return core.Validate.Struct(rr)
}
