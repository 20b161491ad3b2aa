// internal/loan/persist/repository_test.go
package persist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/models"
)

func sampleApplication() *models.Application {
	return &models.Application{
		ID:        "11111111-2222-3333-4444-555555555555",
		SessionID: "sess-1",
		ProductID: "personal",
		Profile: map[string]interface{}{
			"Customer_Name":  "Asha Verma",
			"Customer_Email": "asha@example.com",
			"Customer_Phone": "9876543210",
			"Annual_Income":  float64(600000),
		},
		Result: models.PredictionResult{
			EligibleAmount:  500000,
			InterestRate:    12.5,
			RequestedAmount: 400000,
			Status:          models.StatusApproved,
		},
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

// ==========================
// Inserts
// ==========================

func TestSaveApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := sampleApplication()
	profileJSON, _ := json.Marshal(app.Profile)

	mock.ExpectExec("INSERT INTO loan_applications").
		WithArgs(
			app.ID, app.SessionID, app.ProductID, profileJSON,
			app.Result.RequestedAmount, app.Result.EligibleAmount,
			app.Result.InterestRate, "APPROVED", app.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewRepository(db, logger.NewNoOpLogger())
	require.NoError(t, repo.SaveApplication(context.Background(), app))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveApplication_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO loan_applications").
		WillReturnError(assert.AnError)

	repo := NewRepository(db, logger.NewNoOpLogger())
	err = repo.SaveApplication(context.Background(), sampleApplication())
	assert.Error(t, err)
}

// ==========================
// Admin queries
// ==========================

func TestStatsByProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"product_id", "count", "approved", "partial"}).
		AddRow("gold", 5, 3, 2).
		AddRow("personal", 2, 2, 0)
	mock.ExpectQuery("SELECT product_id").WillReturnRows(rows)

	repo := NewRepository(db, logger.NewNoOpLogger())
	stats, err := repo.StatsByProduct(context.Background())
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, models.ProductStats{ProductID: "gold", Total: 5, Approved: 3, Partial: 2}, stats[0])
	assert.Equal(t, models.ProductStats{ProductID: "personal", Total: 2, Approved: 2, Partial: 0}, stats[1])
}

func TestListApplications(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := sampleApplication()
	profileJSON, _ := json.Marshal(app.Profile)

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "product_id", "profile",
		"requested_amount", "eligible_amount", "interest_rate", "status", "created_at",
	}).AddRow(
		app.ID, app.SessionID, app.ProductID, profileJSON,
		app.Result.RequestedAmount, app.Result.EligibleAmount,
		app.Result.InterestRate, "APPROVED", app.CreatedAt,
	)
	mock.ExpectQuery("SELECT id, session_id").
		WithArgs("personal", 20, 0).
		WillReturnRows(rows)

	repo := NewRepository(db, logger.NewNoOpLogger())
	apps, err := repo.ListApplications(context.Background(), "personal", 20, 0)
	require.NoError(t, err)

	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)
	assert.Equal(t, models.StatusApproved, apps[0].Result.Status)
	assert.Equal(t, "Asha Verma", apps[0].Profile["Customer_Name"])
}

// ==========================
// PII masking
// ==========================

func TestMaskProfile(t *testing.T) {
	masked := MaskProfile(map[string]interface{}{
		"Customer_Name":  "Asha Verma",
		"Customer_Email": "asha@example.com",
		"Customer_Phone": "9876543210",
		"Annual_Income":  float64(600000),
	})

	assert.Equal(t, "A*** V***", masked["Customer_Name"])
	assert.Equal(t, "a***@example.com", masked["Customer_Email"])
	assert.Equal(t, "******3210", masked["Customer_Phone"])
	assert.Equal(t, float64(600000), masked["Annual_Income"])
}

func TestMaskProfile_DoesNotMutateInput(t *testing.T) {
	original := map[string]interface{}{"Customer_Phone": "9876543210"}
	_ = MaskProfile(original)
	assert.Equal(t, "9876543210", original["Customer_Phone"])
}
