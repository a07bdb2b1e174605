package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog/log"

	"github.com/block52/coinflipchain/x/coinflip/types"
)

// handleTx authenticates the request, decodes the message and checks that the
// signer is the account the message acts for before delivering it.
func handleTx[M any](s *Server, w http.ResponseWriter, r *http.Request, sender func(*M) string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		badRequest(w, "failed to read request body: "+err.Error())
		return
	}

	signer, err := s.verifier.verify(r, body, s.now())
	if err != nil {
		unauthorized(w, err.Error())
		return
	}

	msg := new(M)
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		badRequest(w, "malformed message: "+err.Error())
		return
	}

	acting, err := s.ledger.AddressCodec().StringToBytes(sender(msg))
	if err != nil {
		writeError(w, errorsmod.Wrapf(types.ErrInvalidAddress, "%s: %s", sender(msg), err))
		return
	}
	if !bytes.Equal(acting, signer) {
		writeError(w, errorsmod.Wrap(types.ErrUnauthorized, "request is not signed by the message sender"))
		return
	}

	resp, err := s.ledger.Deliver(r.Context(), msg)
	if err != nil {
		log.Info().Err(err).Str("path", r.URL.Path).Str("address", sender(msg)).Msg("Transaction rejected")
		writeError(w, err)
		return
	}

	log.Info().Str("path", r.URL.Path).Str("address", sender(msg)).Msg("Transaction delivered")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposeBet(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgProposeBet) string { return m.Creator })
}

func (s *Server) handleAcceptBet(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgAcceptBet) string { return m.Responder })
}

func (s *Server) handleResolveBet(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgResolveBet) string { return m.Creator })
}

func (s *Server) handleLiquidateBet(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgLiquidateBet) string { return m.Liquidator })
}

func (s *Server) handleWithdrawPendingBet(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgWithdrawPendingBet) string { return m.Creator })
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	handleTx(s, w, r, func(m *types.MsgUpdateConfig) string { return m.Authority })
}
