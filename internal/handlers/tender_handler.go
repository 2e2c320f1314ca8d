package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
	"github.com/biddersportal/tender-backend/internal/services"
	"github.com/biddersportal/tender-backend/internal/utils"
)

// TenderHandler - структура для обработки HTTP-запросов.
type TenderHandler struct {
	Service *services.TenderService
	Access  *services.AccessService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, access *services.AccessService, logger *log.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Access:  access,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetTenders обрабатывает запросы для получения списка актуальных тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()

	page, limit, err := utils.ParsePageLimit(query.Get("page"), query.Get("limit"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, endDate, err := utils.ParseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := models.TenderFilter{
		Title:      query.Get("title"),
		Categories: query["category"],
		Method:     query.Get("method"),
		Country:    query.Get("country"),
		StartDate:  startDate,
		EndDate:    endDate,
	}

	result, err := h.Service.FetchTenders(ctx, filter, page, limit)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch tenders")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, result)
}

// GetTenderDetail обрабатывает запросы детального просмотра тендера.
// Полная запись, включая ссылку на документ, доступна только оплатившим пользователям.
func (h *TenderHandler) GetTenderDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderRef := r.PathValue("tenderRef")
	userEmail := r.URL.Query().Get("userEmail")

	tender, err := h.Access.AuthorizeDetailRead(ctx, tenderRef, userEmail)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch tender")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, tender)
}

// CreateTender обрабатывает запросы для создания тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.CreateTender(ctx, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to create tender")
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, tender)
}

// EditTender обрабатывает запросы для изменения тендера.
func (h *TenderHandler) EditTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderRef := r.PathValue("tenderRef")

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.UpdateTender(ctx, tenderRef, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update tender")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, tender)
}

// DeleteTender обрабатывает запросы для удаления тендера.
func (h *TenderHandler) DeleteTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderRef := r.PathValue("tenderRef")

	if err := h.Service.DeleteTender(ctx, tenderRef); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to delete tender")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{"message": "tender deleted successfully"})
}
