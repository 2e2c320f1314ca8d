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

// PaymentHandler обрабатывает подтверждения оплаты и запросы купленных тендеров.
type PaymentHandler struct {
	Access  *services.AccessService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewPaymentHandler создаёт новый экземпляр PaymentHandler.
func NewPaymentHandler(access *services.AccessService, logger *log.Logger, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		Access:  access,
		Logger:  logger,
		Timeout: timeout,
	}
}

// PaymentSuccess обрабатывает подтверждение оплаты от платёжного сервиса.
// Повторная доставка того же подтверждения отвечает успехом без изменения состояния.
func (h *PaymentHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var paymentReq models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&paymentReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Access.RecordPayment(ctx, paymentReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message":   "payment recorded",
		"tenderRef": tender.ExternalRef,
	})
}

// GetPurchasedTenders обрабатывает запросы списка тендеров, оплаченных пользователем.
func (h *PaymentHandler) GetPurchasedTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userEmail := r.URL.Query().Get("userEmail")

	tenders, err := h.Access.GetPurchasedTenders(ctx, userEmail)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch purchased tenders")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, tenders)
}
