package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

func TestListMembers(t *testing.T) {
	service, mock, db := newMockService(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("success with multiple members", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "tenant_id", "role", "custom_role_id", "is_active", "created_at",
			"email", "full_name",
		}).
			AddRow("m-1", "u-1", "t-1", "owner", nil, true, now, "titolare@example.com", "Mario Rossi").
			AddRow("m-2", "u-2", "t-1", "operaio", "cr-1", true, now, "operaio@example.com", sql.NullString{}).
			AddRow("m-3", "u-3", "t-1", "admin", nil, false, now, "ex@example.com", "Luigi Verdi")

		mock.ExpectQuery(`FROM tenant_members_view`).WithArgs("t-1").WillReturnRows(rows)

		members, err := service.ListMembers(ctx, "t-1")
		require.NoError(t, err)
		assert.Len(t, members, 3)

		assert.Equal(t, permissions.RoleOwner, members[0].Role)
		assert.Equal(t, "Mario Rossi", members[0].FullName)
		require.NotNil(t, members[1].CustomRoleID)
		assert.Equal(t, "cr-1", *members[1].CustomRoleID)
		assert.Equal(t, "", members[1].FullName)
		assert.False(t, members[2].IsActive)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`FROM tenant_members_view`).WithArgs("t-2").
			WillReturnError(fmt.Errorf("database connection error"))

		members, err := service.ListMembers(ctx, "t-2")
		require.Error(t, err)
		assert.Nil(t, members)
		assert.Contains(t, err.Error(), "failed to list members")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddMember(t *testing.T) {
	service, mock, db := newMockService(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO user_tenants`).
			WithArgs(sqlmock.AnyArg(), "u-1", "t-1", permissions.RoleAdmin, nil).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		m, err := service.AddMember(ctx, "t-1", "u-1", permissions.RoleAdmin, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.True(t, m.IsActive)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate membership", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO user_tenants`).
			WithArgs(sqlmock.AnyArg(), "u-1", "t-1", permissions.RoleAdmin, nil).
			WillReturnError(sql.ErrNoRows)

		_, err := service.AddMember(ctx, "t-1", "u-1", permissions.RoleAdmin, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "member already exists")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetMemberActive(t *testing.T) {
	service, mock, db := newMockService(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("deactivate", func(t *testing.T) {
		mock.ExpectExec(`UPDATE user_tenants SET is_active`).
			WithArgs(false, "t-1", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, service.SetMemberActive(ctx, "t-1", "u-1", false))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("member not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE user_tenants SET is_active`).
			WithArgs(true, "t-1", "u-404").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.SetMemberActive(ctx, "t-1", "u-404", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "member not found")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAcceptInvitation(t *testing.T) {
	service, mock, db := newMockService(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM tenant_invitations`).WithArgs("tok-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "email", "role", "expires_at", "accepted_at",
			}).AddRow(1, "t-1", "nuovo@example.com", "operaio", time.Now().Add(time.Hour), nil))
		mock.ExpectExec(`INSERT INTO user_tenants`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE tenant_invitations SET accepted_at`).
			WithArgs("u-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, service.AcceptInvitation(ctx, "tok-1", "u-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired invitation", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM tenant_invitations`).WithArgs("tok-2").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "email", "role", "expires_at", "accepted_at",
			}).AddRow(2, "t-1", "tardi@example.com", "operaio", time.Now().Add(-time.Hour), nil))
		mock.ExpectRollback()

		err := service.AcceptInvitation(ctx, "tok-2", "u-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invitation expired")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already accepted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM tenant_invitations`).WithArgs("tok-3").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "email", "role", "expires_at", "accepted_at",
			}).AddRow(3, "t-1", "gia@example.com", "operaio", time.Now().Add(time.Hour), time.Now()))
		mock.ExpectRollback()

		err := service.AcceptInvitation(ctx, "tok-3", "u-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invitation already accepted")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCleanupExpiredInvitations(t *testing.T) {
	service, mock, db := newMockService(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tenant_invitations WHERE expires_at`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, service.CleanupExpiredInvitations(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
