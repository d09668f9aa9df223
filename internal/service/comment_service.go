package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/repository/interfaces"
	"agrimarket-backend/internal/util"

	"go.uber.org/zap"
)

type CommentService struct {
	commentRepo interfaces.CommentRepository
	productRepo interfaces.ProductRepository
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(commentRepo interfaces.CommentRepository, productRepo interfaces.ProductRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		productRepo: productRepo,
	}
}

// Post 发表评论或回复。回复时rootCommentId指向一级评论，toCommentId指向被回复的评论。
func (s *CommentService) Post(comment *model.ProductComment) error {
	if comment.Content == "" {
		return errors.New(errors.ErrValidation, "评论内容不能为空")
	}

	if _, err := s.productRepo.FindByID(comment.ProductID); err != nil {
		return errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}

	if comment.ToCommentID != 0 {
		parent, err := s.commentRepo.FindByID(comment.ToCommentID)
		if err != nil {
			return errors.Wrap(errors.ErrResourceNotFound, "被回复的评论不存在", err)
		}
		if parent.RootCommentID != 0 {
			comment.RootCommentID = parent.RootCommentID
		} else {
			comment.RootCommentID = parent.ID
		}
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return err
	}
	util.Logger.Info("评论发表成功",
		zap.Int64("comment_id", comment.ID),
		zap.Int("product_id", comment.ProductID))
	return nil
}

// GetCommentTree 查询商品评论树，一级评论携带回复列表
func (s *CommentService) GetCommentTree(productID int) ([]*model.ProductComment, error) {
	comments, err := s.commentRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.ProductComment, len(comments))
	var roots []*model.ProductComment
	for _, c := range comments {
		byID[c.ID] = c
		if c.RootCommentID == 0 {
			roots = append(roots, c)
		}
	}
	for _, c := range comments {
		if c.RootCommentID == 0 {
			continue
		}
		if root, ok := byID[c.RootCommentID]; ok {
			root.Replies = append(root.Replies, c)
		}
	}
	return roots, nil
}

// Like 点赞评论
func (s *CommentService) Like(commentID int64) error {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "评论不存在", err)
	}
	return s.commentRepo.Like(commentID)
}

// Delete 删除评论并级联删除其下的全部回复
func (s *CommentService) Delete(operatorID int64, userRole int, commentID int64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "评论不存在", err)
	}
	if int64(comment.UserID) != operatorID && userRole != model.RoleAdmin {
		return errors.New(errors.ErrForbidden, "只能删除自己的评论")
	}
	return s.commentRepo.DeleteTree(commentID)
}
