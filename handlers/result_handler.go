package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(rs services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: rs}
}

func (h *ResultHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input services.RecordMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = chi.URLParam(r, "tournamentID")

	receipt, err := h.resultService.RecordMatch(r.Context(), input)
	if err != nil {
		// A conflict response carries the fresh ledger state so the
		// caller can reload before deciding whether to resubmit.
		if errors.Is(err, services.ErrResultConflict) {
			fresh, loadErr := h.resultService.GetPlayerResult(r.Context(), input.TournamentID, input.PlayerID)
			if loadErr != nil {
				mapServiceErrorToHTTP(w, r, err)
				return
			}
			env := jsonResponse{"error": err.Error(), "current": fresh}
			if writeErr := writeJSON(w, http.StatusConflict, env, nil); writeErr != nil {
				serverErrorResponse(w, r, writeErr)
			}
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"receipt": receipt}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	var input services.DeleteMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = chi.URLParam(r, "tournamentID")
	input.FixtureID = chi.URLParam(r, "fixtureID")

	if err := h.resultService.DeleteMatch(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResultHandler) GetPlayerResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.resultService.GetPlayerResult(r.Context(),
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "playerID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"result": result}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) ListTournamentResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.resultService.ListByTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"results": results}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) ListPlayerResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.resultService.ListByPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"results": results}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
