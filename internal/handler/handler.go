package handler

import (
	"net/http"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/pkg/utils"
)

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	// Check for specific errors
	switch err {
	case apperrors.ErrActiveRequestExists:
		utils.Error(w, apperrors.ActiveRequestExists())
	case apperrors.ErrInvalidState:
		utils.Error(w, apperrors.InvalidState(err.Error()))
	case apperrors.ErrDriverNotVerified:
		utils.Error(w, apperrors.DriverNotVerified())
	case apperrors.ErrAlreadyRated:
		utils.Error(w, apperrors.AlreadyRated())
	case apperrors.ErrNotFound:
		utils.Error(w, apperrors.NotFound("resource"))
	default:
		utils.InternalError(w, "internal server error")
	}
}
