package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const tenderColumns = `external_ref, title, brief, category, procurement_method, procuring_entity, country, document_url, published_at, closes_at, paid_users`

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	UpsertMany(ctx context.Context, tenders []models.Tender) error
	Query(ctx context.Context, filter models.TenderFilter, page, pageSize int) ([]models.Tender, int, error)
	FindByRef(ctx context.Context, externalRef string) (*models.Tender, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error)
	UpdateTender(ctx context.Context, externalRef string, req models.TenderRequest) (*models.Tender, error)
	DeleteTender(ctx context.Context, externalRef string) error
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

// UpsertMany выполняет массовый идемпотентный upsert записей по external_ref одним батчем.
// Поле paid_users при обновлении не затрагивается: оплата переживает повторный импорт.
func (r *PostgresTenderRepository) UpsertMany(ctx context.Context, tenders []models.Tender) error {
	if len(tenders) == 0 {
		return nil
	}

	query := `
       INSERT INTO tender (external_ref, title, brief, category, procurement_method, procuring_entity, country, document_url, published_at, closes_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
       ON CONFLICT (external_ref) DO UPDATE SET
           title = EXCLUDED.title,
           brief = EXCLUDED.brief,
           category = EXCLUDED.category,
           procurement_method = EXCLUDED.procurement_method,
           procuring_entity = EXCLUDED.procuring_entity,
           country = EXCLUDED.country,
           document_url = EXCLUDED.document_url,
           published_at = EXCLUDED.published_at,
           closes_at = EXCLUDED.closes_at,
           updated_at = now()
   `

	batch := &pgx.Batch{}
	for _, t := range tenders {
		batch.Queue(
			query,
			t.ExternalRef,
			t.Title,
			t.Brief,
			t.Category,
			t.ProcurementMethod,
			t.ProcuringEntity,
			t.Country,
			t.DocumentURL,
			t.PublishedAt,
			t.ClosesAt)
	}

	results := r.DB.SendBatch(ctx, batch)
	defer results.Close()

	for range tenders {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert tender batch: %w", err)
		}
	}
	return nil
}

// Query возвращает страницу актуальных тендеров по фильтрам и общее число совпадений.
// Актуальными считаются записи с closes_at не раньше текущего момента.
func (r *PostgresTenderRepository) Query(ctx context.Context, filter models.TenderFilter, page, pageSize int) ([]models.Tender, int, error) {
	filters := []string{fmt.Sprintf("closes_at >= $%d", 1)}
	args := []interface{}{time.Now().UTC()}
	argIndex := 2

	if filter.Title != "" {
		filters = append(filters, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Title+"%")
		argIndex++
	}
	if len(filter.Categories) > 0 {
		filters = append(filters, fmt.Sprintf("category = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Categories))
		argIndex++
	}
	if filter.Method != "" {
		filters = append(filters, fmt.Sprintf("procurement_method = $%d", argIndex))
		args = append(args, filter.Method)
		argIndex++
	}
	if filter.Country != "" {
		filters = append(filters, fmt.Sprintf("country = $%d", argIndex))
		args = append(args, filter.Country)
		argIndex++
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
		filters = append(filters, fmt.Sprintf("closes_at >= $%d AND closes_at <= $%d", argIndex, argIndex+1))
		args = append(args, filter.StartDate, filter.EndDate)
		argIndex += 2
	}

	where := " WHERE " + strings.Join(filters, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM tender` + where
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tenderColumns + ` FROM tender` + where +
		fmt.Sprintf(" ORDER BY closes_at ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, 0, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, total, rows.Err()
}

// FindByRef возвращает тендер по его external_ref.
func (r *PostgresTenderRepository) FindByRef(ctx context.Context, externalRef string) (*models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE external_ref = $1`
	tender, err := scanTender(r.DB.QueryRow(ctx, query, externalRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTenderNotFound
		}
		return nil, err
	}
	return tender, nil
}

// DeleteExpired жёстко удаляет тендеры, чья дата закрытия раньше переданного момента.
// Возвращает количество удалённых записей.
func (r *PostgresTenderRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tender WHERE closes_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// CreateTender создает новый тендер.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tender models.Tender) (*models.Tender, error) {
	_, err := r.DB.Exec(ctx, `
       INSERT INTO tender (external_ref, title, brief, category, procurement_method, procuring_entity, country, document_url, published_at, closes_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
   `,
		tender.ExternalRef,
		tender.Title,
		tender.Brief,
		tender.Category,
		tender.ProcurementMethod,
		tender.ProcuringEntity,
		tender.Country,
		tender.DocumentURL,
		tender.PublishedAt,
		tender.ClosesAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", err)
	}
	return &tender, nil
}

// UpdateTender обновляет непустые поля тендера. Поле paid_users не затрагивается.
func (r *PostgresTenderRepository) UpdateTender(ctx context.Context, externalRef string, req models.TenderRequest) (*models.Tender, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	if req.Title != "" {
		updates = append(updates, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, req.Title)
		argIndex++
	}
	if req.Brief != "" {
		updates = append(updates, fmt.Sprintf("brief = $%d", argIndex))
		args = append(args, req.Brief)
		argIndex++
	}
	if req.Category != "" {
		updates = append(updates, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, req.Category)
		argIndex++
	}
	if req.ProcurementMethod != "" {
		updates = append(updates, fmt.Sprintf("procurement_method = $%d", argIndex))
		args = append(args, req.ProcurementMethod)
		argIndex++
	}
	if req.ProcuringEntity != "" {
		updates = append(updates, fmt.Sprintf("procuring_entity = $%d", argIndex))
		args = append(args, req.ProcuringEntity)
		argIndex++
	}
	if req.Country != "" {
		updates = append(updates, fmt.Sprintf("country = $%d", argIndex))
		args = append(args, req.Country)
		argIndex++
	}
	if req.DocumentURL != "" {
		updates = append(updates, fmt.Sprintf("document_url = $%d", argIndex))
		args = append(args, req.DocumentURL)
		argIndex++
	}
	if !req.ClosesAt.IsZero() {
		updates = append(updates, fmt.Sprintf("closes_at = $%d", argIndex))
		args = append(args, req.ClosesAt)
		argIndex++
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no valid fields to update")
	}
	updates = append(updates, "updated_at = now()")

	query := `UPDATE tender SET ` + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE external_ref = $%d RETURNING ", argIndex) + tenderColumns
	args = append(args, externalRef)

	tender, err := scanTender(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTenderNotFound
		}
		return nil, err
	}
	return tender, nil
}

// DeleteTender удаляет тендер по external_ref.
func (r *PostgresTenderRepository) DeleteTender(ctx context.Context, externalRef string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tender WHERE external_ref = $1`, externalRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTenderNotFound
	}
	return nil
}

func scanTender(row pgx.Row) (*models.Tender, error) {
	var tender models.Tender
	err := row.Scan(
		&tender.ExternalRef,
		&tender.Title,
		&tender.Brief,
		&tender.Category,
		&tender.ProcurementMethod,
		&tender.ProcuringEntity,
		&tender.Country,
		&tender.DocumentURL,
		&tender.PublishedAt,
		&tender.ClosesAt,
		&tender.PaidUsers)
	if err != nil {
		return nil, err
	}
	return &tender, nil
}
