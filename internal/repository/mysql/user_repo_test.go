package mysql

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// TestUpdatePassword 测试密码更新写入user表的password列
func TestUpdatePassword(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE user SET password = ?, updated_at = ? WHERE user_id = ?`)).
		WithArgs("new-hash", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePassword(7, "new-hash"))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
