package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
	"time"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	log.Printf("尝试创建新用户：%s", user.Username)
	query := `INSERT INTO user (username, password, real_name, role_type, phone, email, id_card, status, image_url)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.PasswordHash, user.RealName, user.RoleType,
		user.Phone, user.Email, user.IDCard, user.Status, user.ImageURL)
	if err != nil {
		log.Printf("创建用户失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		log.Printf("获取新用户ID失败：%v", err)
		return err
	}
	user.ID = int(id)
	log.Printf("用户创建成功：ID=%d", user.ID)
	return nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT user_id, username, password, real_name, role_type, phone, email, id_card, status, image_url, created_at, updated_at
              FROM user WHERE user_id = ?`
	var user model.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.RealName, &user.RoleType,
		&user.Phone, &user.Email, &user.IDCard, &user.Status, &user.ImageURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		log.Printf("查找用户失败：%v", err)
		return nil, err
	}
	return &user, nil
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT user_id, username, password, real_name, role_type, phone, email, id_card, status, image_url, created_at, updated_at
              FROM user WHERE username = ?`
	var user model.User
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.RealName, &user.RoleType,
		&user.Phone, &user.Email, &user.IDCard, &user.Status, &user.ImageURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新用户资料
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE user
		SET real_name = ?, phone = ?, email = ?, id_card = ?, updated_at = ?
		WHERE user_id = ?`,
		user.RealName, user.Phone, user.Email, user.IDCard, time.Now(), user.ID)
	return err
}

// UpdateAvatar 更新用户头像
func (r *userRepository) UpdateAvatar(userID int, imageURL string) error {
	_, err := r.db.Exec(`UPDATE user SET image_url = ?, updated_at = ? WHERE user_id = ?`,
		imageURL, time.Now(), userID)
	if err != nil {
		log.Printf("更新用户头像失败：%v", err)
	}
	return err
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE user SET password = ?, updated_at = ? WHERE user_id = ?`,
		passwordHash, time.Now(), userID)
	if err != nil {
		log.Printf("更新用户密码失败：%v", err)
	}
	return err
}

// Delete 删除用户
func (r *userRepository) Delete(id int) error {
	log.Printf("尝试删除用户：ID=%d", id)
	_, err := r.db.Exec(`DELETE FROM user WHERE user_id = ?`, id)
	if err != nil {
		log.Printf("删除用户失败：%v", err)
	}
	return err
}

// Count 统计用户总数
func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM user`).Scan(&count)
	return count, err
}

// FindAll 分页查询用户列表
func (r *userRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	query := `SELECT user_id, username, password, real_name, role_type, phone, email, id_card, status, image_url, created_at, updated_at
              FROM user ORDER BY user_id LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &user.RealName, &user.RoleType,
			&user.Phone, &user.Email, &user.IDCard, &user.Status, &user.ImageURL,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// FindExperts 查询所有专家用户
func (r *userRepository) FindExperts() ([]*model.User, error) {
	query := `SELECT user_id, username, password, real_name, role_type, phone, email, id_card, status, image_url, created_at, updated_at
              FROM user WHERE role_type = ? ORDER BY user_id`
	rows, err := r.db.Query(query, model.RoleExpert)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &user.RealName, &user.RoleType,
			&user.Phone, &user.Email, &user.IDCard, &user.Status, &user.ImageURL,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// CreateAddress 新增收货地址
func (r *userRepository) CreateAddress(address *model.UserAddress) error {
	result, err := r.db.Exec(`INSERT INTO user_address (user_id, address_name) VALUES (?, ?)`,
		address.UserID, address.AddressName)
	if err != nil {
		log.Printf("新增收货地址失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	address.ID = int(id)
	return nil
}

// UpdateAddress 更新收货地址
func (r *userRepository) UpdateAddress(address *model.UserAddress) error {
	_, err := r.db.Exec(`UPDATE user_address SET address_name = ? WHERE address_id = ?`,
		address.AddressName, address.ID)
	return err
}

// DeleteAddress 删除收货地址
func (r *userRepository) DeleteAddress(id int) error {
	_, err := r.db.Exec(`DELETE FROM user_address WHERE address_id = ?`, id)
	return err
}

// GetAddressByID 查询单个收货地址
func (r *userRepository) GetAddressByID(id int) (*model.UserAddress, error) {
	var address model.UserAddress
	err := r.db.QueryRow(`SELECT address_id, user_id, address_name FROM user_address WHERE address_id = ?`, id).
		Scan(&address.ID, &address.UserID, &address.AddressName)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// ListUserAddresses 查询用户的全部收货地址
func (r *userRepository) ListUserAddresses(userID int) ([]*model.UserAddress, error) {
	rows, err := r.db.Query(`SELECT address_id, user_id, address_name FROM user_address WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*model.UserAddress
	for rows.Next() {
		var address model.UserAddress
		if err := rows.Scan(&address.ID, &address.UserID, &address.AddressName); err != nil {
			return nil, err
		}
		addresses = append(addresses, &address)
	}
	return addresses, rows.Err()
}
