package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCommentServiceForTest() (*CommentService, *MockCommentRepository, *MockProductRepository) {
	commentRepo := new(MockCommentRepository)
	productRepo := new(MockProductRepository)
	return NewCommentService(commentRepo, productRepo), commentRepo, productRepo
}

// TestPostReplyResolvesRoot 测试回复二级评论时根评论ID指向一级评论
func TestPostReplyResolvesRoot(t *testing.T) {
	svc, commentRepo, productRepo := newCommentServiceForTest()

	productRepo.On("FindByID", 10).Return(&model.Product{ID: 10}, nil)
	// 被回复的是一条二级评论，其根评论为1
	commentRepo.On("FindByID", int64(5)).Return(&model.ProductComment{
		ID: 5, RootCommentID: 1, ProductID: 10,
	}, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.ProductComment")).Return(nil)

	comment := &model.ProductComment{
		Content: "我也遇到过", UserID: 7, ProductID: 10, ToCommentID: 5,
	}
	err := svc.Post(comment)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), comment.RootCommentID)
}

// TestPostReplyToRoot 测试回复一级评论时根评论ID指向该评论本身
func TestPostReplyToRoot(t *testing.T) {
	svc, commentRepo, productRepo := newCommentServiceForTest()

	productRepo.On("FindByID", 10).Return(&model.Product{ID: 10}, nil)
	commentRepo.On("FindByID", int64(1)).Return(&model.ProductComment{
		ID: 1, RootCommentID: 0, ProductID: 10,
	}, nil)
	commentRepo.On("Create", mock.AnythingOfType("*model.ProductComment")).Return(nil)

	comment := &model.ProductComment{
		Content: "请问怎么购买", UserID: 7, ProductID: 10, ToCommentID: 1,
	}
	err := svc.Post(comment)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), comment.RootCommentID)
}

// TestGetCommentTree 测试评论树的组装
func TestGetCommentTree(t *testing.T) {
	svc, commentRepo, _ := newCommentServiceForTest()

	commentRepo.On("ListByProduct", 10).Return([]*model.ProductComment{
		{ID: 1, RootCommentID: 0},
		{ID: 2, RootCommentID: 1, ToCommentID: 1},
		{ID: 3, RootCommentID: 1, ToCommentID: 2},
		{ID: 4, RootCommentID: 0},
	}, nil)

	roots, err := svc.GetCommentTree(10)
	assert.NoError(t, err)
	assert.Len(t, roots, 2)
	assert.Len(t, roots[0].Replies, 2)
	assert.Empty(t, roots[1].Replies)
}

// TestDeleteRequiresOwnership 测试只有本人或管理员可以删除评论
func TestDeleteRequiresOwnership(t *testing.T) {
	svc, commentRepo, _ := newCommentServiceForTest()

	commentRepo.On("FindByID", int64(1)).Return(&model.ProductComment{
		ID: 1, UserID: 7,
	}, nil)

	err := svc.Delete(99, model.RoleBuyer, 1)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	commentRepo.On("DeleteTree", int64(1)).Return(nil)
	assert.NoError(t, svc.Delete(7, model.RoleBuyer, 1))
	assert.NoError(t, svc.Delete(99, model.RoleAdmin, 1))
}
