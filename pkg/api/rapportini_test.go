package api

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRapportiniStore(t *testing.T) (*RapportiniStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRapportiniStore(db), mock
}

func rapportinoRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "user_id", "data", "commessa", "ore", "note", "created_at", "updated_at",
	}).
		AddRow(int64(1), "t-1", "u-1", "2026-08-01", "Cantiere Nord", 8.0, nil, now, now).
		AddRow(int64(2), "t-1", "u-2", "2026-07-31", nil, 6.5, "mezza giornata", now, now)
}

func TestRapportiniStoreList(t *testing.T) {
	store, mock := newRapportiniStore(t)

	mock.ExpectQuery("FROM rapportini WHERE tenant_id = ").
		WithArgs("t-1").
		WillReturnRows(rapportinoRows())

	reports, err := store.List(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	require.NotNil(t, reports[0].Commessa)
	assert.Equal(t, "Cantiere Nord", *reports[0].Commessa)
	assert.Nil(t, reports[0].Note)
	assert.Nil(t, reports[1].Commessa)
	require.NotNil(t, reports[1].Note)
	assert.Equal(t, 6.5, reports[1].Ore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRapportiniStoreListByUser(t *testing.T) {
	store, mock := newRapportiniStore(t)

	mock.ExpectQuery("FROM rapportini WHERE tenant_id = .+ AND user_id = ").
		WithArgs("t-1", "u-1").
		WillReturnRows(rapportinoRows())

	_, err := store.ListByUser(context.Background(), "t-1", "u-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRapportiniStoreGetNotFound(t *testing.T) {
	store, mock := newRapportiniStore(t)

	mock.ExpectQuery("FROM rapportini WHERE tenant_id = .+ AND id = ").
		WithArgs("t-1", int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "user_id", "data", "commessa", "ore", "note", "created_at", "updated_at",
		}))

	_, err := store.Get(context.Background(), "t-1", 9)
	assert.EqualError(t, err, "rapportino not found")
}

func TestRapportiniStoreCreate(t *testing.T) {
	store, mock := newRapportiniStore(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO rapportini").
		WithArgs("t-1", "u-1", "2026-08-01", nil, 8.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	r := &Rapportino{TenantID: "t-1", UserID: "u-1", Data: "2026-08-01", Ore: 8}
	require.NoError(t, store.Create(context.Background(), r))
	assert.Equal(t, int64(7), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRapportiniStoreUpdateNotFound(t *testing.T) {
	store, mock := newRapportiniStore(t)

	mock.ExpectExec("UPDATE rapportini").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), &Rapportino{ID: 9, TenantID: "t-1", Data: "2026-08-01", Ore: 8})
	assert.EqualError(t, err, "rapportino not found")
}

func TestRapportiniStoreDelete(t *testing.T) {
	store, mock := newRapportiniStore(t)

	mock.ExpectExec("DELETE FROM rapportini").
		WithArgs("t-1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "t-1", 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
