// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

// respondError writes the envelope matching the error kind. Internal
// causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	message := ""
	if svcErr.Key != "" && svcErr.Key != i18n.KeyValidationInvalid {
		message = i18n.T(lang, svcErr.Key)
	}

	switch {
	case errors.Is(svcErr.Kind, services.ErrNotFound):
		utils.NotFoundResponse(c, message)
	case errors.Is(svcErr.Kind, services.ErrConflict):
		utils.ConflictResponse(c, message)
	case errors.Is(svcErr.Kind, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, message)
	case errors.Is(svcErr.Kind, services.ErrBadRequest):
		switch {
		case len(svcErr.Fields) > 0 && message == "":
			utils.ValidationErrorResponse(c, svcErr.Fields)
		case len(svcErr.Fields) > 0:
			utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, svcErr.Fields)
		default:
			utils.BadRequestResponse(c, message, nil)
		}
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, message)
	}
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationID, "product"), nil)
		return 0, false
	}
	return id, true
}
