package echoapi

import (
	"bytes"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
	exportsvc "github.com/stagedock/stagedock/services/export"
)

var errDocNotFoundInCtx = errors.New("document object not found in echo.Context")

type documentApi struct {
	svc      *document.Service
	itemSvc  *stageplot.Service
	userSvc  *user.Service
	exporter exportsvc.PlotExporter
	mailSvc  core.EmailService
}

func registerDocumentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *document.Service,
	itemSvc *stageplot.Service,
	userSvc *user.Service,
	exporter exportsvc.PlotExporter,
	mailSvc core.EmailService,
) {
	api := documentApi{svc: svc, itemSvc: itemSvc, userSvc: userSvc, exporter: exporter, mailSvc: mailSvc}

	dg := g.Group("/documents", jwt)
	dg.POST("", api.create)
	dg.GET("", api.query)

	// detail endpoints
	og := dg.Group("/:id", ctxDocumentOwnerOrAdminMiddleware(svc, userSvc))
	og.GET("", api.retrieve)
	og.PUT("", api.update)
	og.DELETE("", api.destroy)
	og.GET("/export", api.export)
	og.POST("/export/email", api.emailExport)

	og.GET("/items", api.listItems)
	og.POST("/items", api.createItem)
	og.POST("/drumkit", api.expandDrumKit)
	og.PUT("/reorder", api.reorderChannels)
	og.GET("/channels", api.channels)
	og.GET("/equipment", api.equipment)
}

// Handlers

func (api *documentApi) create(ctx echo.Context) error {
	var data document.NewDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDocument")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	doc, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

// query lists the context user's documents. Admins see everyone's.
func (api *documentApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var docs []document.Document
	if ctxUsr.IsAdmin() {
		docs, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		docs, err = api.svc.QueryOwned(ctx.Request().Context(), ctxUsr.ID)
	}
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	doc, ok := ctx.Get("object").(document.Document)
	if !ok {
		return errors.Wrap(errDocNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) update(ctx echo.Context) error {
	doc, ok := ctx.Get("object").(document.Document)
	if !ok {
		return errors.Wrap(errDocNotFoundInCtx, "retrieving object from context")
	}

	var data document.UpdateDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDocument")
	}
	if err := data.Validate(doc); err != nil {
		return err
	}

	doc, err := api.svc.Update(ctx.Request().Context(), doc.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) destroy(ctx echo.Context) error {
	doc, ok := ctx.Get("object").(document.Document)
	if !ok {
		return errors.Wrap(errDocNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), doc.ID); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *documentApi) export(ctx echo.Context) error {
	doc, ok := ctx.Get("object").(document.Document)
	if !ok {
		return errors.Wrap(errDocNotFoundInCtx, "retrieving object from context")
	}

	owner, err := api.userSvc.GetByID(ctx.Request().Context(), doc.OwnerID)
	if err != nil {
		return errors.Wrap(err, "getting document owner")
	}
	items, err := api.itemSvc.List(ctx.Request().Context(), doc.ID)
	if err != nil {
		return errors.Wrap(err, "listing items")
	}

	var buff bytes.Buffer
	if err := api.exporter.Export(&buff, doc, owner, items); err != nil {
		return errors.Wrap(err, "exporting document")
	}

	ctx.Response().Header().Set(
		echo.HeaderContentDisposition, `attachment; filename="`+api.exporter.Filename(doc)+`"`,
	)
	return ctx.Blob(http.StatusOK, api.exporter.ContentType(), buff.Bytes())
}

// emailExport sends the rendered plot as an email attachment. With no
// recipients in the body, the document owner gets it.
func (api *documentApi) emailExport(ctx echo.Context) error {
	doc, ok := ctx.Get("object").(document.Document)
	if !ok {
		return errors.Wrap(errDocNotFoundInCtx, "retrieving object from context")
	}

	var data EmailExportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailExportRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	owner, err := api.userSvc.GetByID(ctx.Request().Context(), doc.OwnerID)
	if err != nil {
		return errors.Wrap(err, "getting document owner")
	}

	to := make([]mail.Address, 0, len(data.To))
	for _, addr := range data.To {
		to = append(to, mail.Address{Address: addr})
	}
	if len(to) == 0 {
		to = append(to, mail.Address{Name: owner.Name, Address: owner.Email})
	}

	items, err := api.itemSvc.List(ctx.Request().Context(), doc.ID)
	if err != nil {
		return errors.Wrap(err, "listing items")
	}

	if err := exportsvc.EmailPlot(api.mailSvc, api.exporter, doc, owner, items, to...); err != nil {
		return errors.Wrap(err, "emailing document export")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "export sent"})
}

func (api *documentApi) listItems(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)
	items, err := api.itemSvc.List(ctx.Request().Context(), doc.ID)
	if err != nil {
		return errors.Wrap(err, "listing items")
	}
	if items == nil {
		items = []stageplot.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *documentApi) createItem(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)

	var data stageplot.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	item, err := api.itemSvc.Create(ctx.Request().Context(), doc.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *documentApi) expandDrumKit(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)

	var data stageplot.NewDrumKit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDrumKit")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	items, err := api.itemSvc.ExpandDrumKit(ctx.Request().Context(), doc.ID, data)
	if err != nil {
		return errors.Wrap(err, "expanding drum kit")
	}
	return ctx.JSON(http.StatusCreated, items)
}

func (api *documentApi) reorderChannels(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)

	var data stageplot.ReorderChannels
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderChannels")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	items, err := api.itemSvc.Renumber(ctx.Request().Context(), doc.ID, data.OrderedIDs)
	if err != nil {
		return errors.Wrap(err, "renumbering channels")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *documentApi) channels(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)

	assigned, unassigned, err := api.itemSvc.Channels(ctx.Request().Context(), doc.ID)
	if err != nil {
		return errors.Wrap(err, "deriving channel list")
	}
	if assigned == nil {
		assigned = []stageplot.Item{}
	}
	if unassigned == nil {
		unassigned = []stageplot.Item{}
	}
	return ctx.JSON(http.StatusOK, ChannelListResponse{Assigned: assigned, Unassigned: unassigned})
}

func (api *documentApi) equipment(ctx echo.Context) error {
	doc := ctx.Get("object").(document.Document)

	rows, err := api.itemSvc.Equipment(ctx.Request().Context(), doc.ID)
	if err != nil {
		return errors.Wrap(err, "consolidating equipment")
	}
	if rows == nil {
		rows = []stageplot.EquipmentRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

type ChannelListResponse struct {
	Assigned   []stageplot.Item `json:"assigned"`
	Unassigned []stageplot.Item `json:"unassigned"`
}

type EmailExportRequest struct {
	To []string `json:"to" validate:"omitempty,dive,required,email"`
}

func (r *EmailExportRequest) Validate() error {
	return core.Validate.Struct(r)
}
