package model

import "time"

// ProductComment 商品评论模型，rootCommentId为0表示一级评论
type ProductComment struct {
	ID            int64             `json:"product_comment_id"`
	Content       string            `json:"content"`
	SendTime      time.Time         `json:"send_time"`
	UserID        int               `json:"user_id"`
	ProductID     int               `json:"product_id"`
	LikeCount     int               `json:"comment_like_count"`
	RootCommentID int64             `json:"root_comment_id"`
	ToCommentID   int64             `json:"to_comment_id"`
	Username      string            `json:"username,omitempty"`
	UserImage     string            `json:"user_image,omitempty"`
	Replies       []*ProductComment `json:"replies,omitempty"`
}
