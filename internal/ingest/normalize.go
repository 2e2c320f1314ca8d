package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// Форматы дат, встречающиеся в фиде.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize приводит сырые записи фида к канонической модели.
// Записи без идентификатора или без разбираемой даты закрытия пропускаются;
// возвращается список нормализованных тендеров и число пропущенных записей.
func Normalize(entries []models.FeedEntry) ([]models.Tender, int) {
	tenders := make([]models.Tender, 0, len(entries))
	skipped := 0

	for _, entry := range entries {
		tender, err := normalizeEntry(entry)
		if err != nil {
			skipped++
			continue
		}
		tenders = append(tenders, *tender)
	}
	return tenders, skipped
}

func normalizeEntry(entry models.FeedEntry) (*models.Tender, error) {
	ref := strings.TrimSpace(entry.BDRNo.String())
	if ref == "" {
		ref = strings.TrimSpace(entry.TenderRef)
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: missing tender reference", models.ErrMalformedRecord)
	}

	closesAt, err := parseDate(entry.TenderExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: closing date %q: %v", models.ErrMalformedRecord, entry.TenderExpiry, err)
	}

	publishedAt, err := parseDate(entry.PublishedAt)
	if err != nil {
		publishedAt = time.Time{}
	}

	return &models.Tender{
		ExternalRef:       ref,
		Title:             strings.TrimSpace(entry.TenderBrief),
		Brief:             strings.TrimSpace(entry.TenderBrief),
		Category:          strings.TrimSpace(entry.TenderCategory),
		ProcurementMethod: strings.TrimSpace(entry.CompetitionType),
		ProcuringEntity:   strings.TrimSpace(entry.ProcuringEntity),
		Country:           strings.TrimSpace(entry.Country),
		DocumentURL:       strings.TrimSpace(entry.FileURL),
		PublishedAt:       publishedAt,
		ClosesAt:          closesAt,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
