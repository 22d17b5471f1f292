package delivery

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

var statusByErr = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{query.ErrNotFound, http.StatusNotFound},
	{domain.ErrBidNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrDuplicateBid, http.StatusConflict},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrInvalidSignature, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusForbidden},
	{domain.ErrNotTokenOwner, http.StatusForbidden},
}

// StatusOf maps an error to its http status
func StatusOf(err error) int {
	for _, s := range statusByErr {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) || domain.IsRevert(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if s := StatusOf(err); s != http.StatusInternalServerError || status < 400 {
			status = s
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
