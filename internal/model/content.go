package model

import "time"

// News 资讯模型
type News struct {
	ID          int       `json:"news_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CoverImg    string    `json:"cover_img"`
	PublishTime time.Time `json:"publish_time"`
}

// AgricultureKnowledge 农业知识模型
type AgricultureKnowledge struct {
	ID          int       `json:"knowledge_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	CoverImg    string    `json:"cover_img"`
	PublishTime time.Time `json:"publish_time"`
}

// BuyRequest 求购信息模型
type BuyRequest struct {
	ID          int       `json:"request_id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	Contact     string    `json:"contact"`
	CreateTime  time.Time `json:"create_time"`
	Username    string    `json:"username,omitempty"`
}
