package api

import (
	"encoding/json"
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      uint32              `json:"code"`
	Codespace string              `json:"codespace,omitempty"`
	Category  types.ErrorCategory `json:"category"`
	Message   string              `json:"message"`
}

var categoryStatus = map[types.ErrorCategory]int{
	types.CategoryValidation:    http.StatusBadRequest,
	types.CategoryTiming:        http.StatusBadRequest,
	types.CategoryAuthorization: http.StatusForbidden,
	types.CategoryStateConflict: http.StatusConflict,
	types.CategoryArithmetic:    http.StatusUnprocessableEntity,
}

// errorStatus classifies err into an HTTP status and response body.
func errorStatus(err error) (int, ErrorResponse) {
	category := types.CategoryOf(err)
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	resp := ErrorResponse{Code: code, Codespace: codespace, Category: category, Message: err.Error()}

	if httpStatus, ok := categoryStatus[category]; ok {
		return httpStatus, resp
	}

	switch {
	case errors.Is(err, sdkerrors.ErrInsufficientFunds), errors.Is(err, sdkerrors.ErrInvalidCoins):
		resp.Category = types.CategoryValidation
		return http.StatusBadRequest, resp
	}

	if s, ok := status.FromError(err); ok {
		resp.Message = s.Message()
		switch s.Code() {
		case codes.InvalidArgument:
			resp.Category = types.CategoryValidation
			return http.StatusBadRequest, resp
		case codes.NotFound:
			resp.Category = types.CategoryStateConflict
			return http.StatusNotFound, resp
		}
	}

	return http.StatusInternalServerError, resp
}

func writeJSON(w http.ResponseWriter, httpStatus int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	httpStatus, resp := errorStatus(err)
	if httpStatus == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, httpStatus, resp)
}

// badRequest reports a malformed request that never reached the ledger.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Category: types.CategoryValidation, Message: msg})
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Category: types.CategoryAuthorization, Message: msg})
}
