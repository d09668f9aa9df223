package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
	"time"
)

// commentRepository 实现了 CommentRepository 接口
type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository 创建一个新的 commentRepository 实例
func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db}
}

const commentColumns = `c.product_comment_id, c.content, c.send_time, c.user_id, c.product_id,
       c.comment_like_count, c.root_comment_id, c.to_comment_id, u.username, u.image_url`

func (r *commentRepository) queryComments(query string, args ...interface{}) ([]*model.ProductComment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.ProductComment
	for rows.Next() {
		var c model.ProductComment
		if err := rows.Scan(
			&c.ID, &c.Content, &c.SendTime, &c.UserID, &c.ProductID,
			&c.LikeCount, &c.RootCommentID, &c.ToCommentID, &c.Username, &c.UserImage,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// Create 发表评论
func (r *commentRepository) Create(comment *model.ProductComment) error {
	query := `INSERT INTO product_comment (content, send_time, user_id, product_id, comment_like_count, root_comment_id, to_comment_id)
              VALUES (?, ?, ?, ?, 0, ?, ?)`
	result, err := r.db.Exec(query, comment.Content, time.Now(), comment.UserID, comment.ProductID,
		comment.RootCommentID, comment.ToCommentID)
	if err != nil {
		log.Printf("发表评论失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

// FindByID 通过ID查找评论
func (r *commentRepository) FindByID(id int64) (*model.ProductComment, error) {
	query := `SELECT ` + commentColumns + ` FROM product_comment c
              JOIN user u ON u.user_id = c.user_id
              WHERE c.product_comment_id = ?`
	var c model.ProductComment
	err := r.db.QueryRow(query, id).Scan(
		&c.ID, &c.Content, &c.SendTime, &c.UserID, &c.ProductID,
		&c.LikeCount, &c.RootCommentID, &c.ToCommentID, &c.Username, &c.UserImage,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByProduct 查询商品的全部评论
func (r *commentRepository) ListByProduct(productID int) ([]*model.ProductComment, error) {
	return r.queryComments(`SELECT `+commentColumns+` FROM product_comment c
		JOIN user u ON u.user_id = c.user_id
		WHERE c.product_id = ?
		ORDER BY c.send_time`, productID)
}

// ListReplies 查询某一级评论下的全部回复
func (r *commentRepository) ListReplies(rootID int64) ([]*model.ProductComment, error) {
	return r.queryComments(`SELECT `+commentColumns+` FROM product_comment c
		JOIN user u ON u.user_id = c.user_id
		WHERE c.root_comment_id = ?
		ORDER BY c.send_time`, rootID)
}

// Like 评论点赞数加一
func (r *commentRepository) Like(id int64) error {
	_, err := r.db.Exec(`UPDATE product_comment SET comment_like_count = comment_like_count + 1 WHERE product_comment_id = ?`, id)
	return err
}

// DeleteTree 级联删除评论，沿 root_comment_id 和 to_comment_id 两条边逐层展开
func (r *commentRepository) DeleteTree(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	toDelete := []int64{id}
	seen := map[int64]bool{id: true}

	for frontier := []int64{id}; len(frontier) > 0; {
		var next []int64
		for _, parent := range frontier {
			rows, err := tx.Query(`SELECT product_comment_id FROM product_comment
				WHERE root_comment_id = ? OR to_comment_id = ?`, parent, parent)
			if err != nil {
				return err
			}
			for rows.Next() {
				var childID int64
				if err := rows.Scan(&childID); err != nil {
					rows.Close()
					return err
				}
				if !seen[childID] {
					seen[childID] = true
					next = append(next, childID)
					toDelete = append(toDelete, childID)
				}
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()
		}
		frontier = next
	}

	for _, commentID := range toDelete {
		if _, err := tx.Exec(`DELETE FROM product_comment WHERE product_comment_id = ?`, commentID); err != nil {
			log.Printf("删除评论失败：ID=%d %v", commentID, err)
			return err
		}
	}

	log.Printf("级联删除评论成功：根ID=%d 共%d条", id, len(toDelete))
	return tx.Commit()
}
