package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
	"time"
)

// contentRepository 实现了 ContentRepository 接口
type contentRepository struct {
	db *sql.DB
}

// NewContentRepository 创建一个新的 contentRepository 实例
func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{db}
}

// CreateNews 发布资讯
func (r *contentRepository) CreateNews(news *model.News) error {
	result, err := r.db.Exec(`INSERT INTO news (title, content, cover_img, publish_time) VALUES (?, ?, ?, ?)`,
		news.Title, news.Content, news.CoverImg, time.Now())
	if err != nil {
		log.Printf("发布资讯失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	news.ID = int(id)
	return nil
}

// FindNewsByID 通过ID查找资讯
func (r *contentRepository) FindNewsByID(id int) (*model.News, error) {
	var news model.News
	err := r.db.QueryRow(`SELECT news_id, title, content, cover_img, publish_time FROM news WHERE news_id = ?`, id).
		Scan(&news.ID, &news.Title, &news.Content, &news.CoverImg, &news.PublishTime)
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// ListNews 分页查询资讯
func (r *contentRepository) ListNews(page, pageSize int) ([]*model.News, error) {
	rows, err := r.db.Query(`SELECT news_id, title, content, cover_img, publish_time
		FROM news ORDER BY publish_time DESC LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newsList []*model.News
	for rows.Next() {
		var news model.News
		if err := rows.Scan(&news.ID, &news.Title, &news.Content, &news.CoverImg, &news.PublishTime); err != nil {
			return nil, err
		}
		newsList = append(newsList, &news)
	}
	return newsList, rows.Err()
}

// UpdateNews 更新资讯
func (r *contentRepository) UpdateNews(news *model.News) error {
	_, err := r.db.Exec(`UPDATE news SET title = ?, content = ?, cover_img = ? WHERE news_id = ?`,
		news.Title, news.Content, news.CoverImg, news.ID)
	return err
}

// DeleteNews 删除资讯
func (r *contentRepository) DeleteNews(id int) error {
	_, err := r.db.Exec(`DELETE FROM news WHERE news_id = ?`, id)
	return err
}

// CreateKnowledge 发布农业知识
func (r *contentRepository) CreateKnowledge(k *model.AgricultureKnowledge) error {
	result, err := r.db.Exec(`INSERT INTO agriculture_knowledge (title, content, category, cover_img, publish_time)
		VALUES (?, ?, ?, ?, ?)`, k.Title, k.Content, k.Category, k.CoverImg, time.Now())
	if err != nil {
		log.Printf("发布农业知识失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	k.ID = int(id)
	return nil
}

// FindKnowledgeByID 通过ID查找农业知识
func (r *contentRepository) FindKnowledgeByID(id int) (*model.AgricultureKnowledge, error) {
	var k model.AgricultureKnowledge
	err := r.db.QueryRow(`SELECT knowledge_id, title, content, category, cover_img, publish_time
		FROM agriculture_knowledge WHERE knowledge_id = ?`, id).
		Scan(&k.ID, &k.Title, &k.Content, &k.Category, &k.CoverImg, &k.PublishTime)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// ListKnowledge 分页查询农业知识，category为空时查询全部
func (r *contentRepository) ListKnowledge(category string, page, pageSize int) ([]*model.AgricultureKnowledge, error) {
	query := `SELECT knowledge_id, title, content, category, cover_img, publish_time
              FROM agriculture_knowledge`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY publish_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.AgricultureKnowledge
	for rows.Next() {
		var k model.AgricultureKnowledge
		if err := rows.Scan(&k.ID, &k.Title, &k.Content, &k.Category, &k.CoverImg, &k.PublishTime); err != nil {
			return nil, err
		}
		list = append(list, &k)
	}
	return list, rows.Err()
}

// UpdateKnowledge 更新农业知识
func (r *contentRepository) UpdateKnowledge(k *model.AgricultureKnowledge) error {
	_, err := r.db.Exec(`UPDATE agriculture_knowledge SET title = ?, content = ?, category = ?, cover_img = ? WHERE knowledge_id = ?`,
		k.Title, k.Content, k.Category, k.CoverImg, k.ID)
	return err
}

// DeleteKnowledge 删除农业知识
func (r *contentRepository) DeleteKnowledge(id int) error {
	_, err := r.db.Exec(`DELETE FROM agriculture_knowledge WHERE knowledge_id = ?`, id)
	return err
}

// CreateBuyRequest 发布求购信息
func (r *contentRepository) CreateBuyRequest(req *model.BuyRequest) error {
	result, err := r.db.Exec(`INSERT INTO buy_request (user_id, title, description, amount, contact, create_time)
		VALUES (?, ?, ?, ?, ?, ?)`, req.UserID, req.Title, req.Description, req.Amount, req.Contact, time.Now())
	if err != nil {
		log.Printf("发布求购信息失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = int(id)
	return nil
}

// FindBuyRequestByID 通过ID查找求购信息
func (r *contentRepository) FindBuyRequestByID(id int) (*model.BuyRequest, error) {
	query := `SELECT b.request_id, b.user_id, b.title, b.description, b.amount, b.contact, b.create_time, u.username
              FROM buy_request b
              JOIN user u ON u.user_id = b.user_id
              WHERE b.request_id = ?`
	var req model.BuyRequest
	err := r.db.QueryRow(query, id).Scan(
		&req.ID, &req.UserID, &req.Title, &req.Description, &req.Amount,
		&req.Contact, &req.CreateTime, &req.Username,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListBuyRequests 分页查询求购信息，可按关键词搜索标题和描述
func (r *contentRepository) ListBuyRequests(keyword string, page, pageSize int) ([]*model.BuyRequest, error) {
	query := `SELECT b.request_id, b.user_id, b.title, b.description, b.amount, b.contact, b.create_time, u.username
              FROM buy_request b
              JOIN user u ON u.user_id = b.user_id`
	var args []interface{}
	if keyword != "" {
		query += ` WHERE b.title LIKE ? OR b.description LIKE ?`
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY b.create_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*model.BuyRequest
	for rows.Next() {
		var req model.BuyRequest
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.Title, &req.Description, &req.Amount,
			&req.Contact, &req.CreateTime, &req.Username,
		); err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// DeleteBuyRequest 删除求购信息
func (r *contentRepository) DeleteBuyRequest(id int) error {
	_, err := r.db.Exec(`DELETE FROM buy_request WHERE request_id = ?`, id)
	return err
}
