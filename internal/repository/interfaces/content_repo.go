package interfaces

import "agrimarket-backend/internal/model"

// ContentRepository 接口定义了资讯和知识内容仓库应该实现的方法
type ContentRepository interface {
	CreateNews(news *model.News) error
	FindNewsByID(id int) (*model.News, error)
	ListNews(page, pageSize int) ([]*model.News, error)
	UpdateNews(news *model.News) error
	DeleteNews(id int) error
	CreateKnowledge(k *model.AgricultureKnowledge) error
	FindKnowledgeByID(id int) (*model.AgricultureKnowledge, error)
	ListKnowledge(category string, page, pageSize int) ([]*model.AgricultureKnowledge, error)
	UpdateKnowledge(k *model.AgricultureKnowledge) error
	DeleteKnowledge(id int) error
	CreateBuyRequest(req *model.BuyRequest) error
	FindBuyRequestByID(id int) (*model.BuyRequest, error)
	ListBuyRequests(keyword string, page, pageSize int) ([]*model.BuyRequest, error)
	DeleteBuyRequest(id int) error
}
