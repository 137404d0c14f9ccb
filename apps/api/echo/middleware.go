package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/user"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// ctxDocumentOwnerOrAdminMiddleware loads the document at :id into the context
// under "object". The owner and admins get through; everyone else gets a 404 so
// document IDs are not probeable.
func ctxDocumentOwnerOrAdminMiddleware(docSvc *document.Service, usrSvc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			doc, err := docSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == document.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding document by ID")
			}
			if doc.OwnerID != ctxUsr.ID && !ctxUsr.IsAdmin() {
				return errHttpNotFound
			}
			ctx.Set("object", doc)
			return next(ctx)
		}
	}
}
