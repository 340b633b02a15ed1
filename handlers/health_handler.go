package handlers

import (
	"database/sql"
	"net/http"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/db"
)

type HealthHandler struct {
	db        *sql.DB
	bootstrap *db.Bootstrapper
}

func NewHealthHandler(dbConn *sql.DB, bootstrap *db.Bootstrapper) *HealthHandler {
	return &HealthHandler{db: dbConn, bootstrap: bootstrap}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	response := jsonResponse{
		"status": "ok",
		"schema": h.bootstrap.State().String(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
