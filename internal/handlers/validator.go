package handlers

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"rentguy/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// RequestValidator plugs go-playground/validator into echo.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	return rv.validate.Struct(i)
}

// bindRequest binds and validates the body into req, reporting the first
// failing field as a validation error.
func bindRequest(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.NewValidation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Param() != "" {
				return common.NewValidation("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
			}
			return common.NewValidation("%s failed %s", fe.Field(), fe.Tag())
		}
		return common.NewValidation("%s", err.Error())
	}
	return nil
}

func callerID(c echo.Context) (uuid.UUID, error) {
	id, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, common.NewUnauthorized("not authenticated")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ParseIDParam(c, name)
	if err != nil {
		return uuid.Nil, common.NewValidation("%s", err.Error())
	}
	return id, nil
}

func optionalQueryID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, common.NewValidation("%s", err.Error())
	}
	return &id, nil
}

func pagination(c echo.Context) (limit, skip int, err error) {
	limit, skip, err = common.ParsePagination(c)
	if err != nil {
		return 0, 0, common.NewValidation("%s", err.Error())
	}
	return limit, skip, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, common.NewValidation("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func listResponse(key string, items any, limit, skip int) map[string]any {
	return map[string]any{
		key:     items,
		"limit": limit,
		"skip":  skip,
	}
}
