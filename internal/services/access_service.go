package services

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/biddersportal/tender-backend/internal/models"
	"github.com/biddersportal/tender-backend/internal/repository"

	"github.com/go-playground/validator/v10"
)

// AccessService реализует платный доступ к деталям тендера.
type AccessService struct {
	Tenders  repository.TenderRepository
	Access   repository.AccessRepository
	Notifier EmailNotifier
	Logger   *log.Logger
	validate *validator.Validate
}

// NewAccessService создаёт новый экземпляр AccessService.
func NewAccessService(tenders repository.TenderRepository, access repository.AccessRepository, notifier EmailNotifier, logger *log.Logger) *AccessService {
	return &AccessService{
		Tenders:  tenders,
		Access:   access,
		Notifier: notifier,
		Logger:   logger,
		validate: validator.New(),
	}
}

// RecordPayment фиксирует подтверждённую оплату тендера пользователем.
// Повторная доставка того же подтверждения - no-op: состояние не меняется,
// письмо повторно не отправляется, ошибки нет. Письмо привязано к исходу
// GrantAccess, поэтому при конкурирующих доставках уходит ровно одно.
func (s *AccessService) RecordPayment(ctx context.Context, req models.PaymentRequest) (*models.Tender, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing payment details")
	}

	tender, err := s.Tenders.FindByRef(ctx, req.TenderRef)
	if err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	granted, err := s.Access.GrantAccess(ctx, req.TenderRef, req.UserEmail)
	if err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !granted {
		return tender, nil
	}

	if err := s.Notifier.SendPurchaseConfirmation(ctx, req.UserEmail, tender); err != nil {
		s.Logger.Printf("failed to send purchase confirmation to %s: %v", req.UserEmail, err)
	}
	return tender, nil
}

// AuthorizeDetailRead возвращает полную запись тендера, включая ссылку на документ,
// только если пользователь оплатил доступ. Списочные выборки этой проверке не подлежат.
func (s *AccessService) AuthorizeDetailRead(ctx context.Context, externalRef, userEmail string) (*models.Tender, error) {
	if userEmail == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "user email is required")
	}

	tender, err := s.Tenders.FindByRef(ctx, externalRef)
	if err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	hasAccess, err := s.Access.HasAccess(ctx, externalRef, userEmail)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !hasAccess {
		return nil, models.NewErrorResponse(http.StatusForbidden, models.ErrAccessDenied.Error()+", payment required")
	}
	return tender, nil
}

// GetPurchasedTenders возвращает тендеры, оплаченные пользователем.
func (s *AccessService) GetPurchasedTenders(ctx context.Context, userEmail string) ([]models.Tender, error) {
	if userEmail == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "user email is required")
	}

	tenders, err := s.Access.GetPurchasedTenders(ctx, userEmail)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tenders == nil {
		tenders = []models.Tender{}
	}
	return tenders, nil
}
