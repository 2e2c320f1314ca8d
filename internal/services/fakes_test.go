package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// fakeStore - общая in-memory реализация TenderRepository и AccessRepository для тестов.
type fakeStore struct {
	mu      sync.Mutex
	tenders map[string]models.Tender

	upsertErr error
	queryErr  error

	upsertCalls int
	nowFunc     func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenders: make(map[string]models.Tender),
		nowFunc: time.Now,
	}
}

func (f *fakeStore) UpsertMany(ctx context.Context, tenders []models.Tender) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, t := range tenders {
		if existing, ok := f.tenders[t.ExternalRef]; ok {
			t.PaidUsers = existing.PaidUsers
		}
		f.tenders[t.ExternalRef] = t
	}
	return nil
}

func (f *fakeStore) Query(ctx context.Context, filter models.TenderFilter, page, pageSize int) ([]models.Tender, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queryErr != nil {
		return nil, 0, f.queryErr
	}

	now := f.nowFunc().UTC()
	var matched []models.Tender
	for _, t := range f.tenders {
		if t.ClosesAt.Before(now) {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if len(filter.Categories) > 0 && !containsString(filter.Categories, t.Category) {
			continue
		}
		if filter.Method != "" && t.ProcurementMethod != filter.Method {
			continue
		}
		if filter.Country != "" && t.Country != filter.Country {
			continue
		}
		if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
			if t.ClosesAt.Before(filter.StartDate) || t.ClosesAt.After(filter.EndDate) {
				continue
			}
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ClosesAt.Before(matched[j].ClosesAt)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeStore) FindByRef(ctx context.Context, externalRef string) (*models.Tender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tenders[externalRef]
	if !ok {
		return nil, models.ErrTenderNotFound
	}
	return &t, nil
}

func (f *fakeStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deleted := 0
	for ref, t := range f.tenders {
		if t.ClosesAt.Before(now) {
			delete(f.tenders, ref)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tenders[tender.ExternalRef] = tender
	return &tender, nil
}

func (f *fakeStore) UpdateTender(ctx context.Context, externalRef string, req models.TenderRequest) (*models.Tender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tenders[externalRef]
	if !ok {
		return nil, models.ErrTenderNotFound
	}
	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Category != "" {
		t.Category = req.Category
	}
	if !req.ClosesAt.IsZero() {
		t.ClosesAt = req.ClosesAt
	}
	f.tenders[externalRef] = t
	return &t, nil
}

func (f *fakeStore) DeleteTender(ctx context.Context, externalRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tenders[externalRef]; !ok {
		return models.ErrTenderNotFound
	}
	delete(f.tenders, externalRef)
	return nil
}

func (f *fakeStore) GrantAccess(ctx context.Context, externalRef, userEmail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tenders[externalRef]
	if !ok {
		return false, models.ErrTenderNotFound
	}
	for _, u := range t.PaidUsers {
		if u == userEmail {
			return false, nil
		}
	}
	t.PaidUsers = append(t.PaidUsers, userEmail)
	f.tenders[externalRef] = t
	return true, nil
}

func (f *fakeStore) HasAccess(ctx context.Context, externalRef, userEmail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tenders[externalRef]
	if !ok {
		return false, models.ErrTenderNotFound
	}
	for _, u := range t.PaidUsers {
		if u == userEmail {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetPurchasedTenders(ctx context.Context, userEmail string) ([]models.Tender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tenders []models.Tender
	for _, t := range f.tenders {
		for _, u := range t.PaidUsers {
			if u == userEmail {
				tenders = append(tenders, t)
			}
		}
	}
	sort.Slice(tenders, func(i, j int) bool {
		return tenders[i].ClosesAt.Before(tenders[j].ClosesAt)
	})
	return tenders, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// fakeFetcher возвращает заранее заданные записи фида или ошибку.
type fakeFetcher struct {
	entries []models.FeedEntry
	dropped int
	err     error
}

func (f *fakeFetcher) FetchTenders(ctx context.Context) ([]models.FeedEntry, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.entries, f.dropped, nil
}

// countingNotifier считает отправленные письма.
type countingNotifier struct {
	sent int
}

func (n *countingNotifier) SendPurchaseConfirmation(ctx context.Context, recipient string, tender *models.Tender) error {
	n.sent++
	return nil
}
