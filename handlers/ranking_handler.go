package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// scopeFromRequest reads the optional tournament and round query
// parameters; both empty means the overall all-time ranking.
func scopeFromRequest(r *http.Request) services.RankingScope {
	return services.RankingScope{
		TournamentID: r.URL.Query().Get("tournament"),
		RoundID:      r.URL.Query().Get("round"),
	}
}

func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rankingService.Ranking(r.Context(), scopeFromRequest(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ranking": ranking}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) ListWeightOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.rankingService.ListWeightOverrides(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"overrides": overrides}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) SetWeightOverride(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Weight float64 `json:"weight"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ageBracket := models.AgeBracket(chi.URLParam(r, "ageBracket"))
	tier := models.SkillTier(chi.URLParam(r, "tier"))
	if err := h.rankingService.SetWeightOverride(r.Context(), ageBracket, tier, input.Weight); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RankingHandler) ClearWeightOverride(w http.ResponseWriter, r *http.Request) {
	ageBracket := models.AgeBracket(chi.URLParam(r, "ageBracket"))
	tier := models.SkillTier(chi.URLParam(r, "tier"))
	if err := h.rankingService.ClearWeightOverride(r.Context(), ageBracket, tier); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RankingHandler) GetPlayerPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.rankingService.Points(r.Context(), chi.URLParam(r, "playerID"), scopeFromRequest(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"points": points}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
