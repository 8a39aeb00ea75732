package handler

import (
	"errors"
	"net/http"
	"reflect"

	"timecafe/internal/apierror"
	"timecafe/internal/middleware"
	"timecafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status. Domain guard
// rejections carry a typed kind; everything else falls back to 400.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch apierror.KindOf(err) {
	case apierror.KindValidation:
		status = http.StatusUnprocessableEntity
	case apierror.KindNotFound:
		status = http.StatusNotFound
	case apierror.KindPeriodLocked, apierror.KindInsufficientFunds, apierror.KindStockShortage:
		status = http.StatusConflict
	case apierror.KindIntegrity:
		status = http.StatusInternalServerError
	default:
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
	}
	c.JSON(status, apierror.FromError(err))
}

// parseID reads a UUID path parameter, writing the 400 response on failure.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom builds the acting user from the request's JWT claims.
func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	name := claims.Name
	if name == "" {
		name = claims.Username
	}
	return service.Actor{ID: id, Name: name}
}
