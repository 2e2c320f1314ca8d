package services

import (
	"context"
	"log"
	"time"

	"github.com/biddersportal/tender-backend/internal/cache"
	"github.com/biddersportal/tender-backend/internal/ingest"
	"github.com/biddersportal/tender-backend/internal/models"
	"github.com/biddersportal/tender-backend/internal/repository"
)

// FeedFetcher - источник сырых записей тендеров. Вторым значением
// возвращается число записей, отброшенных при разборе ответа фида.
type FeedFetcher interface {
	FetchTenders(ctx context.Context) ([]models.FeedEntry, int, error)
}

// IngestService выполняет импорт тендеров из внешнего фида и чистку просроченных записей.
type IngestService struct {
	Fetcher FeedFetcher
	Repo    repository.TenderRepository
	Cache   *cache.QueryCache
	Logger  *log.Logger
	nowFunc func() time.Time
}

// NewIngestService создаёт новый экземпляр IngestService.
func NewIngestService(fetcher FeedFetcher, repo repository.TenderRepository, queryCache *cache.QueryCache, logger *log.Logger) *IngestService {
	return &IngestService{
		Fetcher: fetcher,
		Repo:    repo,
		Cache:   queryCache,
		Logger:  logger,
		nowFunc: time.Now,
	}
}

// Run выполняет один прогон импорта: fetch, нормализация, массовый upsert,
// затем удаление просроченных тендеров. Ошибка fetch прерывает прогон,
// не трогая хранилище; повтор произойдёт на следующем тике расписания.
// Все записи заливаются до чистки, поэтому переопубликованный тендер
// обновляется раньше, чем принимается решение о его удалении.
func (s *IngestService) Run(ctx context.Context) error {
	entries, dropped, err := s.Fetcher.FetchTenders(ctx)
	if err != nil {
		return err
	}

	tenders, skipped := ingest.Normalize(entries)
	skipped += dropped
	if skipped > 0 {
		s.Logger.Printf("skipped %d malformed feed records", skipped)
	}

	if err := s.Repo.UpsertMany(ctx, tenders); err != nil {
		return err
	}
	s.Logger.Printf("upserted %d tenders from the feed", len(tenders))

	deleted, err := s.Repo.DeleteExpired(ctx, s.nowFunc().UTC())
	if err != nil {
		return err
	}
	s.Logger.Printf("deleted %d expired tenders", deleted)

	s.Cache.Invalidate()
	return nil
}
