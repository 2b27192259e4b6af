package middleware

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	tp "github.com/reoring/typeprovider"
)

// CodeValidation is the error code carried by validation failure payloads.
const CodeValidation = "FST_ERR_VALIDATION"

// ErrorPayload is the JSON body written for failed requests.
type ErrorPayload struct {
	StatusCode        int                  `json:"statusCode"`
	Code              string               `json:"code,omitempty"`
	Error             string               `json:"error"`
	Message           string               `json:"message"`
	ValidationContext tp.HTTPPart          `json:"validationContext,omitempty"`
	Validation        []tp.ValidationError `json:"validation,omitempty"`
}

// PayloadFor maps err to its response payload. Validation failures become 400,
// unreadable bodies keep their own status and everything else is a 500.
func PayloadFor(err error) ErrorPayload {
	var (
		reqErr  *tp.RequestError
		bodyErr *BodyError
		encErr  *tp.EncodeError
	)
	switch {
	case errors.As(err, &reqErr):
		return ErrorPayload{
			StatusCode:        http.StatusBadRequest,
			Code:              CodeValidation,
			Error:             http.StatusText(http.StatusBadRequest),
			Message:           reqErr.Error(),
			ValidationContext: reqErr.Part,
			Validation:        reqErr.Errors,
		}
	case errors.As(err, &bodyErr):
		return ErrorPayload{
			StatusCode: bodyErr.Status,
			Code:       bodyErr.Code,
			Error:      http.StatusText(bodyErr.Status),
			Message:    bodyErr.Message,
		}
	case errors.As(err, &encErr):
		return internalError(encErr.Error())
	default:
		return internalError(err.Error())
	}
}

func internalError(msg string) ErrorPayload {
	return ErrorPayload{
		StatusCode: http.StatusInternalServerError,
		Error:      http.StatusText(http.StatusInternalServerError),
		Message:    msg,
	}
}

// WriteJSON serializes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// WriteError writes the payload PayloadFor(err) describes.
func WriteError(w http.ResponseWriter, err error) error {
	pl := PayloadFor(err)
	return WriteJSON(w, pl.StatusCode, pl)
}
