package router

import (
	"net/http"

	"github.com/biddersportal/tender-backend/internal/handlers"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, paymentHandler *handlers.PaymentHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/tenders", tenderHandler.GetTenders)
	mux.HandleFunc("POST /api/tenders/new", tenderHandler.CreateTender)
	mux.HandleFunc("GET /api/tenders/purchased", paymentHandler.GetPurchasedTenders)
	mux.HandleFunc("GET /api/tenders/{tenderRef}", tenderHandler.GetTenderDetail)
	mux.HandleFunc("PUT /api/tenders/{tenderRef}/edit", tenderHandler.EditTender)
	mux.HandleFunc("DELETE /api/tenders/{tenderRef}", tenderHandler.DeleteTender)

	mux.HandleFunc("/api/payments/success", paymentHandler.PaymentSuccess)

	return mux
}
