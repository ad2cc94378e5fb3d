package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mineq-data/internal/domain"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *PostgresUsersRepo, *PostgresEquipmentRepo, *PostgresLogsRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewPostgresUsersRepo(db), NewPostgresEquipmentRepo(db), NewPostgresLogsRepo(db)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"username", "password_hash", "role", "status", "fullname", "team", "contact"})
}

func TestPostgresUsers_List(t *testing.T) {
	mock, users, _, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, password_hash, role, status, fullname, team, contact FROM users ORDER BY username`)).
		WillReturnRows(userRows().
			AddRow("admin", domain.SeedPasswordHash, "admin", "active", "系统管理员", "", "").
			AddRow("worker", domain.SeedPasswordHash, "worker", "active", "普通员工", "", ""))

	got, err := users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.RoleAdmin, got[0].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_CreateDuplicate(t *testing.T) {
	mock, users, _, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("admin", domain.SeedPasswordHash, "worker", "pending", "", "", "").
		WillReturnError(&pq.Error{Code: "23505"})

	err := users.Create(context.Background(), domain.User{
		Username:     "admin",
		PasswordHash: domain.SeedPasswordHash,
		Role:         domain.RoleWorker,
		Status:       domain.UserPending,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_GetByCredentials(t *testing.T) {
	mock, users, _, _ := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE username = \$1 AND password_hash = \$2 AND status = 'active'`).
		WithArgs("admin", domain.SeedPasswordHash).
		WillReturnRows(userRows().AddRow("admin", domain.SeedPasswordHash, "admin", "active", "系统管理员", "", ""))

	u, err := users.GetByCredentials(ctx, "admin", domain.SeedPasswordHash)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "admin", u.Username)

	// 无匹配（口令错或待审批）返回 (nil, nil)，不是错误
	mock.ExpectQuery(`SELECT .+ FROM users`).
		WithArgs("admin", "badhash").
		WillReturnRows(userRows())

	u, err = users.GetByCredentials(ctx, "admin", "badhash")
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUsers_ReplaceMissing(t *testing.T) {
	mock, users, _, _ := newMock(t)

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := users.Replace(context.Background(), "ghost", domain.User{Username: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresEquipment_CreateAssignsNextID(t *testing.T) {
	mock, _, eqs, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO equipment`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	created, err := eqs.Create(context.Background(), domain.Equipment{Name: "主井提升机", Status: domain.StatusInUse})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, "主井提升机", created.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEquipment_DeleteCascadesInTx(t *testing.T) {
	mock, _, eqs, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM logs WHERE eq_id = $1`)).
		WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM equipment WHERE id = $1`)).
		WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, eqs.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogs_Create(t *testing.T) {
	mock, _, _, logs := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO logs`)).
		WithArgs(1, "故障维修", "2024-03-01", "张工", "链条断裂").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	created, err := logs.Create(context.Background(), domain.Log{
		EqID: 1, LogType: "故障维修", LogDate: "2024-03-01", Operator: "张工", Details: "链条断裂",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogs_ReplaceMissing(t *testing.T) {
	mock, _, _, logs := newMock(t)

	mock.ExpectExec(`UPDATE logs`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := logs.Replace(context.Background(), 99, domain.Log{})
	assert.ErrorIs(t, err, ErrNotFound)
}
