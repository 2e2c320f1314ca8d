package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/biddersportal/tender-backend/internal/cache"
	"github.com/biddersportal/tender-backend/internal/models"
	"github.com/biddersportal/tender-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type TenderService struct {
	Repo     repository.TenderRepository
	Cache    *cache.QueryCache
	validate *validator.Validate
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, queryCache *cache.QueryCache) *TenderService {
	return &TenderService{
		Repo:     repo,
		Cache:    queryCache,
		validate: validator.New(),
	}
}

// FetchTenders возвращает страницу актуальных тендеров по фильтрам.
// Выборка идёт через кэш: совпадающий по ключу свежий результат отдаётся как есть,
// промах приводит к запросу в хранилище и записи результата с TTL.
func (s *TenderService) FetchTenders(ctx context.Context, filter models.TenderFilter, page, pageSize int) (*models.TenderPage, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "page and pageSize must be positive integers")
	}

	key := cache.Key(filter, page, pageSize)
	if cached, ok := s.Cache.Get(key); ok {
		return cached, nil
	}

	tenders, total, err := s.Repo.Query(ctx, filter, page, pageSize)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to query tenders")
	}

	// В списке полный документ не отдаётся: ссылка на него доступна
	// только через детальный просмотр после оплаты.
	for i := range tenders {
		tenders[i].DocumentURL = ""
	}
	if tenders == nil {
		tenders = []models.Tender{}
	}

	result := models.TenderPage{
		Tenders:    tenders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	s.Cache.Set(key, result)
	return &result, nil
}

// CreateTender создает новый тендер.
func (s *TenderService) CreateTender(ctx context.Context, req models.TenderRequest) (*models.Tender, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	ref := req.ExternalRef
	if ref == "" {
		ref = uuid.New().String()
	}

	publishedAt := req.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	tender, err := s.Repo.CreateTender(ctx, models.Tender{
		ExternalRef:       ref,
		Title:             req.Title,
		Brief:             req.Brief,
		Category:          req.Category,
		ProcurementMethod: req.ProcurementMethod,
		ProcuringEntity:   req.ProcuringEntity,
		Country:           req.Country,
		DocumentURL:       req.DocumentURL,
		PublishedAt:       publishedAt,
		ClosesAt:          req.ClosesAt,
	})
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to create tender")
	}

	s.Cache.Invalidate()
	return tender, nil
}

// UpdateTender обновляет существующий тендер.
func (s *TenderService) UpdateTender(ctx context.Context, externalRef string, req models.TenderRequest) (*models.Tender, error) {
	if externalRef == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing tender reference")
	}

	tender, err := s.Repo.UpdateTender(ctx, externalRef, req)
	if err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to update tender")
	}

	s.Cache.Invalidate()
	return tender, nil
}

// DeleteTender удаляет тендер.
func (s *TenderService) DeleteTender(ctx context.Context, externalRef string) error {
	if externalRef == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing tender reference")
	}

	if err := s.Repo.DeleteTender(ctx, externalRef); err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			return models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to delete tender")
	}

	s.Cache.Invalidate()
	return nil
}
