package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/repository/interfaces"
)

type ContentService struct {
	contentRepo interfaces.ContentRepository
}

// NewContentService 创建一个新的 ContentService 实例
func NewContentService(contentRepo interfaces.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// CreateNews 发布资讯
func (s *ContentService) CreateNews(news *model.News) error {
	if news.Title == "" {
		return errors.New(errors.ErrValidation, "标题不能为空")
	}
	return s.contentRepo.CreateNews(news)
}

// GetNews 查询资讯详情
func (s *ContentService) GetNews(id int) (*model.News, error) {
	return s.contentRepo.FindNewsByID(id)
}

// ListNews 分页查询资讯
func (s *ContentService) ListNews(page, pageSize int) ([]*model.News, error) {
	return s.contentRepo.ListNews(page, pageSize)
}

// UpdateNews 更新资讯
func (s *ContentService) UpdateNews(news *model.News) error {
	return s.contentRepo.UpdateNews(news)
}

// DeleteNews 删除资讯
func (s *ContentService) DeleteNews(id int) error {
	return s.contentRepo.DeleteNews(id)
}

// CreateKnowledge 发布农业知识
func (s *ContentService) CreateKnowledge(k *model.AgricultureKnowledge) error {
	if k.Title == "" {
		return errors.New(errors.ErrValidation, "标题不能为空")
	}
	return s.contentRepo.CreateKnowledge(k)
}

// GetKnowledge 查询农业知识详情
func (s *ContentService) GetKnowledge(id int) (*model.AgricultureKnowledge, error) {
	return s.contentRepo.FindKnowledgeByID(id)
}

// ListKnowledge 分页查询农业知识
func (s *ContentService) ListKnowledge(category string, page, pageSize int) ([]*model.AgricultureKnowledge, error) {
	return s.contentRepo.ListKnowledge(category, page, pageSize)
}

// UpdateKnowledge 更新农业知识
func (s *ContentService) UpdateKnowledge(k *model.AgricultureKnowledge) error {
	return s.contentRepo.UpdateKnowledge(k)
}

// DeleteKnowledge 删除农业知识
func (s *ContentService) DeleteKnowledge(id int) error {
	return s.contentRepo.DeleteKnowledge(id)
}

// CreateBuyRequest 发布求购信息
func (s *ContentService) CreateBuyRequest(req *model.BuyRequest) error {
	if req.Title == "" {
		return errors.New(errors.ErrValidation, "标题不能为空")
	}
	if req.Amount <= 0 {
		return errors.New(errors.ErrValidation, "求购数量必须为正数")
	}
	return s.contentRepo.CreateBuyRequest(req)
}

// GetBuyRequest 查询求购信息详情
func (s *ContentService) GetBuyRequest(id int) (*model.BuyRequest, error) {
	return s.contentRepo.FindBuyRequestByID(id)
}

// ListBuyRequests 分页查询求购信息
func (s *ContentService) ListBuyRequests(keyword string, page, pageSize int) ([]*model.BuyRequest, error) {
	return s.contentRepo.ListBuyRequests(keyword, page, pageSize)
}

// DeleteBuyRequest 删除求购信息，只能删除自己发布的
func (s *ContentService) DeleteBuyRequest(userID, requestID int, isAdmin bool) error {
	req, err := s.contentRepo.FindBuyRequestByID(requestID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "求购信息不存在", err)
	}
	if req.UserID != userID && !isAdmin {
		return errors.New(errors.ErrForbidden, "只能删除自己发布的求购信息")
	}
	return s.contentRepo.DeleteBuyRequest(requestID)
}
