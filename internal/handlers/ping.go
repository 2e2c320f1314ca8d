package handlers

import (
	"net/http"
	"time"

	"github.com/biddersportal/tender-backend/internal/utils"
)

var startedAt = time.Now()

// PingHandler обрабатывает GET запрос к /api/ping и отдаёт состояние сервиса.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(startedAt).Truncate(time.Second).String(),
	})
}
