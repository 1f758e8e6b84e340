package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"evalhub/internal/model"
)

// newMockDB opens gorm over a sqlmock connection so the exact SQL guards can
// be asserted without a running MySQL.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysqldriver.New(mysqldriver.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestRegisterWithInvite_RedeemsAndCreates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invite_codes` SET .+ WHERE id = \\? AND status = \\?").
		WithArgs(model.InviteStatusUsed, sqlmock.AnyArg(), 77, model.InviteStatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	user := &model.User{Email: "a@b.com", PasswordHash: "hash", RemainingEvals: 99}
	err := repo.RegisterWithInvite(user, 77)
	require.NoError(t, err)

	assert.Equal(t, uint(12), user.ID)
	assert.Equal(t, uint(77), user.InviteCodeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The UNUSED guard lost the race: no rows flip, no user row is created, and
// the whole transaction rolls back.
func TestRegisterWithInvite_CodeAlreadyTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invite_codes` SET .+ WHERE id = \\? AND status = \\?").
		WithArgs(model.InviteStatusUsed, sqlmock.AnyArg(), 77, model.InviteStatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	user := &model.User{Email: "a@b.com", PasswordHash: "hash"}
	err := repo.RegisterWithInvite(user, 77)

	assert.ErrorIs(t, err, ErrInviteTaken)
	assert.NoError(t, mock.ExpectationsWereMet(), "no user insert may run when the code was taken")
}

func TestAddEvals_ReturnsNewBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .+GREATEST\\(remaining_evals \\+ \\?, 0\\).+ WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM `users` WHERE `users`\\.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"remaining_evals"}).AddRow(15))
	mock.ExpectCommit()

	balance, err := repo.AddEvals(9, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Balance already 0 and delta negative: GREATEST leaves the row unchanged and
// MySQL reports zero affected rows, yet the user exists and the call must
// succeed with the floored balance.
func TestAddEvals_NoopFloorIsNotMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .+GREATEST\\(remaining_evals \\+ \\?, 0\\).+ WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM `users` WHERE `users`\\.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"remaining_evals"}).AddRow(0))
	mock.ExpectCommit()

	balance, err := repo.AddEvals(9, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddEvals_MissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .+GREATEST\\(remaining_evals \\+ \\?, 0\\).+ WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM `users` WHERE `users`\\.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"remaining_evals"}))
	mock.ExpectRollback()

	_, err := repo.AddEvals(404, 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
