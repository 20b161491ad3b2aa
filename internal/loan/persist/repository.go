// internal/loan/persist/repository.go
package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/models"
)

// Repository stores finished applications in Postgres. The profile travels
// as a JSONB document; the prediction outputs are broken out into columns
// so the admin queries can aggregate without unpacking JSON.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

const insertApplicationSQL = `
	INSERT INTO loan_applications
		(id, session_id, product_id, profile, requested_amount, eligible_amount, interest_rate, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// SaveApplication writes one application row. Called exactly once per
// prediction; the caller treats failures as non-fatal.
func (r *Repository) SaveApplication(ctx context.Context, app *models.Application) error {
	profileJSON, err := json.Marshal(app.Profile)
	if err != nil {
		return insertError(fmt.Sprintf("marshal profile: %v", err))
	}

	_, err = r.db.ExecContext(ctx, insertApplicationSQL,
		app.ID,
		app.SessionID,
		app.ProductID,
		profileJSON,
		app.Result.RequestedAmount,
		app.Result.EligibleAmount,
		app.Result.InterestRate,
		string(app.Result.Status),
		app.CreatedAt,
	)
	if err != nil {
		return insertError(err.Error())
	}

	r.logger.Info("application persisted", map[string]interface{}{
		"application_id": app.ID,
		"product":        app.ProductID,
		"status":         string(app.Result.Status),
	})
	return nil
}

const statsSQL = `
	SELECT product_id,
	       COUNT(*),
	       COUNT(*) FILTER (WHERE status = 'APPROVED'),
	       COUNT(*) FILTER (WHERE status = 'PARTIAL_APPROVAL')
	FROM loan_applications
	GROUP BY product_id
	ORDER BY product_id`

// StatsByProduct aggregates stored applications for the admin dashboard.
func (r *Repository) StatsByProduct(ctx context.Context) ([]models.ProductStats, error) {
	rows, err := r.db.QueryContext(ctx, statsSQL)
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	var stats []models.ProductStats
	for rows.Next() {
		var s models.ProductStats
		if err := rows.Scan(&s.ProductID, &s.Total, &s.Approved, &s.Partial); err != nil {
			return nil, queryError(err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

const listSQL = `
	SELECT id, session_id, product_id, profile, requested_amount, eligible_amount, interest_rate, status, created_at
	FROM loan_applications
	WHERE ($1 = '' OR product_id = $1)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

// ListApplications pages through stored applications, newest first.
// productID filters when non-empty. Profiles come back unmasked; the
// admin surface masks before serializing.
func (r *Repository) ListApplications(ctx context.Context, productID string, limit, offset int) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, listSQL, productID, limit, offset)
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var app models.Application
		var profileJSON []byte
		var status string
		if err := rows.Scan(
			&app.ID, &app.SessionID, &app.ProductID, &profileJSON,
			&app.Result.RequestedAmount, &app.Result.EligibleAmount,
			&app.Result.InterestRate, &status, &app.CreatedAt,
		); err != nil {
			return nil, queryError(err)
		}
		if err := json.Unmarshal(profileJSON, &app.Profile); err != nil {
			return nil, queryError(err)
		}
		app.Result.Status = models.ApprovalStatus(status)
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func insertError(details string) *commonerrors.StandardError {
	return &commonerrors.StandardError{
		Code:      commonerrors.ErrCodeDatabaseInsertFailed,
		Message:   "Failed to store application",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func queryError(err error) *commonerrors.StandardError {
	return &commonerrors.StandardError{
		Code:      commonerrors.ErrCodeQueryExecutionFailed,
		Message:   "Query execution failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
