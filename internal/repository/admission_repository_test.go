package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestAdmissionCreateAssignsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectExec("INSERT INTO admissions").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Admission{
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "9000000000",
		ClassName: "Grade 3",
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionGetByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	now := time.Now().UTC()
	payload := "aGVsbG8="
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "class_name", "last_school",
		"birth_certificate", "report_card", "transfer_certificate", "photograph", "address_proof", "parent_id_proof",
		"created_at",
	}).AddRow("adm-1", "Asha Rao", "asha@example.com", "9000000000", "Grade 3", nil,
		payload, nil, nil, nil, nil, nil, now)
	mock.ExpectQuery("SELECT (.+) FROM admissions WHERE id = \\$1").
		WithArgs("adm-1").
		WillReturnRows(rows)

	record, err := repo.GetByID(context.Background(), "adm-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", record.Name)
	require.NotNil(t, record.BirthCertificate)
	assert.Equal(t, payload, *record.BirthCertificate)
	assert.Nil(t, record.ReportCard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionListOrdersByNewest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "class_name", "last_school",
		"birth_certificate", "report_card", "transfer_certificate", "photograph", "address_proof", "parent_id_proof",
		"created_at",
	}).
		AddRow("adm-2", "B", "b@example.com", "2", "Grade 1", nil, nil, nil, nil, nil, nil, nil, now).
		AddRow("adm-1", "A", "a@example.com", "1", "Grade 1", nil, nil, nil, nil, nil, nil, nil, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).WillReturnRows(rows)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "adm-2", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionDeleteMissingRowIsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admissions WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionDeleteAllReturnsRemovedIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow("adm-1").AddRow("adm-2")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM admissions RETURNING id")).WillReturnRows(rows)

	ids, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"adm-1", "adm-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionDeleteAllEmptyStore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM admissions RETURNING id")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
