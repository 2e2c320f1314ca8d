package repository

import (
	"context"
	"errors"

	"github.com/biddersportal/tender-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccessRepository - интерфейс для работы с доступом пользователей к тендерам.
type AccessRepository interface {
	GrantAccess(ctx context.Context, externalRef, userEmail string) (bool, error)
	HasAccess(ctx context.Context, externalRef, userEmail string) (bool, error)
	GetPurchasedTenders(ctx context.Context, userEmail string) ([]models.Tender, error)
}

// PostgresAccessRepository - реализация AccessRepository для базы данных.
type PostgresAccessRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresAccessRepository создаёт новый экземпляр PostgresAccessRepository.
func NewPostgresAccessRepository(db *pgxpool.Pool) *PostgresAccessRepository {
	return &PostgresAccessRepository{DB: db}
}

// GrantAccess идемпотентно добавляет пользователя в paid_users тендера.
// Возвращает true, только если доступ выдан этим вызовом: условие в одном
// UPDATE, поэтому из конкурирующих вызовов строку меняет ровно один.
// Повторный вызов с теми же аргументами не меняет состояние и не возвращает ошибку.
func (r *PostgresAccessRepository) GrantAccess(ctx context.Context, externalRef, userEmail string) (bool, error) {
	query := `UPDATE tender
              SET paid_users = array_append(paid_users, $2)
              WHERE external_ref = $1 AND NOT ($2 = ANY(paid_users))`
	tag, err := r.DB.Exec(ctx, query, externalRef, userEmail)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Ни одна строка не изменилась: либо доступ уже выдан, либо тендера нет.
	var exists bool
	existsQuery := `SELECT EXISTS(SELECT 1 FROM tender WHERE external_ref = $1)`
	if err := r.DB.QueryRow(ctx, existsQuery, externalRef).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, models.ErrTenderNotFound
	}
	return false, nil
}

// HasAccess проверяет, оплатил ли пользователь доступ к тендеру.
func (r *PostgresAccessRepository) HasAccess(ctx context.Context, externalRef, userEmail string) (bool, error) {
	var hasAccess bool
	query := `SELECT $2 = ANY(paid_users) FROM tender WHERE external_ref = $1`
	err := r.DB.QueryRow(ctx, query, externalRef, userEmail).Scan(&hasAccess)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, models.ErrTenderNotFound
		}
		return false, err
	}
	return hasAccess, nil
}

// GetPurchasedTenders возвращает тендеры, оплаченные пользователем.
func (r *PostgresAccessRepository) GetPurchasedTenders(ctx context.Context, userEmail string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE $1 = ANY(paid_users) ORDER BY closes_at ASC`
	rows, err := r.DB.Query(ctx, query, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}
