package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

// cellFromURL reads the age bracket and skill tier route parameters that
// identify one competition cell.
func cellFromURL(r *http.Request) (models.AgeBracket, models.SkillTier) {
	return models.AgeBracket(chi.URLParam(r, "ageBracket")), models.SkillTier(chi.URLParam(r, "tier"))
}

func (h *ScheduleHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateFixturesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = chi.URLParam(r, "tournamentID")

	fixtures, err := h.scheduleService.GenerateFixtures(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fixtures": fixtures}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.scheduleService.ListFixtures(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fixtures": fixtures}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) RescheduleFixture(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
		Venue       *string    `json:"venue,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixture, err := h.scheduleService.RescheduleFixture(r.Context(),
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "fixtureID"), input.ScheduledAt, input.Venue)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fixture": fixture}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) WithdrawFixture(w http.ResponseWriter, r *http.Request) {
	err := h.scheduleService.WithdrawFixture(r.Context(),
		chi.URLParam(r, "tournamentID"), chi.URLParam(r, "fixtureID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) BuildKnockout(w http.ResponseWriter, r *http.Request) {
	var input services.BuildBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.AgeBracket, input.Tier = cellFromURL(r)

	bracket, err := h.scheduleService.BuildKnockout(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	ageBracket, tier := cellFromURL(r)
	bracket, err := h.scheduleService.GetBracket(r.Context(), ageBracket, tier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) AdvanceKnockout(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Round    int    `json:"round"`
		Match    int    `json:"match"`
		WinnerID string `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ageBracket, tier := cellFromURL(r)
	bracket, err := h.scheduleService.AdvanceKnockout(r.Context(), ageBracket, tier, input.Round, input.Match, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) GenerateGroups(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateGroupsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.AgeBracket, input.Tier = cellFromURL(r)

	bracket, err := h.scheduleService.GenerateGroups(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) UpdateGroupMatch(w http.ResponseWriter, r *http.Request) {
	groupIndex, err := strconv.Atoi(chi.URLParam(r, "groupIndex"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchIndex, err := strconv.Atoi(chi.URLParam(r, "matchIndex"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Score string             `json:"score"`
		Mode  models.ScoringMode `json:"mode"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Mode == "" {
		input.Mode = models.ModeSets
	}

	ageBracket, tier := cellFromURL(r)
	bracket, err := h.scheduleService.UpdateGroupMatch(r.Context(), ageBracket, tier, groupIndex, matchIndex, input.Score, input.Mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) PromoteGroups(w http.ResponseWriter, r *http.Request) {
	ageBracket, tier := cellFromURL(r)
	bracket, err := h.scheduleService.PromoteGroups(r.Context(), ageBracket, tier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"bracket": bracket}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) Standings(w http.ResponseWriter, r *http.Request) {
	ageBracket, tier := cellFromURL(r)
	tables, err := h.scheduleService.Standings(r.Context(), ageBracket, tier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"standings": tables}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
