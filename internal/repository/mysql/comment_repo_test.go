package mysql

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// TestDeleteTreeCascade 测试级联删除沿两条边逐层展开
func TestDeleteTreeCascade(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCommentRepository(db)

	childQuery := regexp.QuoteMeta(`SELECT product_comment_id FROM product_comment`)
	deleteQuery := regexp.QuoteMeta(`DELETE FROM product_comment WHERE product_comment_id = ?`)

	dbMock.ExpectBegin()
	// 评论1下有回复2和3
	dbMock.ExpectQuery(childQuery).WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_comment_id"}).AddRow(2).AddRow(3))
	// 2被3回复过，3指向2；两条边都能发现同一批节点，去重后不再扩展
	dbMock.ExpectQuery(childQuery).WithArgs(int64(2), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"product_comment_id"}).AddRow(3))
	dbMock.ExpectQuery(childQuery).WithArgs(int64(3), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"product_comment_id"}))
	dbMock.ExpectExec(deleteQuery).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(deleteQuery).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(deleteQuery).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	err = repo.DeleteTree(1)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestDeleteTreeLeaf 测试删除没有回复的评论
func TestDeleteTreeLeaf(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCommentRepository(db)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT product_comment_id FROM product_comment`)).
		WithArgs(int64(9), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"product_comment_id"}))
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM product_comment WHERE product_comment_id = ?`)).
		WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	assert.NoError(t, repo.DeleteTree(9))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
