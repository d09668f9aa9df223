package model

import "time"

// 用户角色
const (
	RoleFarmer = 1 // 农户
	RoleBuyer  = 2 // 买家
	RoleExpert = 3 // 专家
	RoleBank   = 4 // 银行
	RoleAdmin  = 5 // 管理员
)

// User 用户模型
type User struct {
	ID           int       `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	RealName     string    `json:"real_name"`
	RoleType     int       `json:"role_type"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	IDCard       string    `json:"id_card"`
	Status       int       `json:"status"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserAddress 收货地址模型
type UserAddress struct {
	ID          int    `json:"address_id"`
	UserID      int    `json:"user_id"`
	AddressName string `json:"address_name"`
}
