package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tourist-event-booking/internal/apperr"
)

// MsgValidationFailed heads every 402 response.
const MsgValidationFailed = "Validation failed"

// ErrorHandler is installed as echo's HTTPErrorHandler.  It is the only
// place an error becomes a response: {status:false, message} with the
// status carried by the error, plus validationErrors for shape failures.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := echo.Map{"status": false}

	var he *echo.HTTPError
	switch ae, ok := apperr.As(err); {
	case ok:
		status = ae.Status
		body["message"] = ae.Message
		if ae.Details != nil {
			body["validationErrors"] = ae.Details
		}
		if ae.Kind == apperr.KindInternal {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), ae)
		}
	case errors.As(err, &he):
		status = he.Code
		if m, isStr := he.Message.(string); isStr && m != "" {
			body["message"] = m
		} else if he.Message != nil {
			body["message"] = fmt.Sprint(he.Message)
		} else {
			body["message"] = http.StatusText(he.Code)
		}
		if he.Internal != nil && status >= http.StatusInternalServerError {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), he.Internal)
		}
	default:
		body["message"] = err.Error()
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}

// CustomValidator adapts go-playground/validator to echo.Validator.
// Field names in errors are the json tag names.
type CustomValidator struct {
	v *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{v: v}
}

// Validate returns a 402 *apperr.Error listing each failing field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if !errors.As(err, &fe) {
		return apperr.Internal(err)
	}
	fields := make(map[string]string, len(fe))
	for _, f := range fe {
		if _, seen := fields[f.Field()]; !seen {
			fields[f.Field()] = fieldMessage(f)
		}
	}
	return validationFailed(fields)
}

func validationFailed(fields map[string]string) error {
	return apperr.Validation(MsgValidationFailed).
		WithStatus(http.StatusPaymentRequired).
		WithDetails(fields)
}

func fieldMessage(f validator.FieldError) string {
	name := f.Field()
	switch f.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		if f.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", name, f.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, f.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, f.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(f.Param(), " ", ", "))
	case "url":
		return name + " must be a valid URL"
	default:
		return name + " is invalid"
	}
}

// bind decodes the request body.  A body that does not decode (wrong JSON
// type, fractional amount) is reported like any other shape failure.
func bind(c echo.Context, dst interface{}) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return validationFailed(map[string]string{
			ute.Field: fmt.Sprintf("%s must be of type %s", ute.Field, typeName(ute.Type)),
		})
	}
	return validationFailed(map[string]string{"body": "request body must be valid JSON"})
}

// bindValid binds then runs the registered validator.
func bindValid(c echo.Context, dst interface{}) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}

// pathID parses a positive integer path parameter, answering 400 with msg
// otherwise.
func pathID(c echo.Context, name, msg string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(msg)
	}
	return id, nil
}
