package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/repository/interfaces"
	"agrimarket-backend/internal/storage"
	"agrimarket-backend/internal/util"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo interfaces.UserRepository
	storage  storage.Storage
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, storage storage.Storage) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  storage,
	}
}

// Register 注册新用户
func (s *UserService) Register(username, password, realName, phone, email, idCard string, roleType int) (*model.User, error) {
	if len(password) < 8 {
		return nil, errors.New(errors.ErrWeakPassword, "密码长度至少8位")
	}
	switch roleType {
	case model.RoleFarmer, model.RoleBuyer, model.RoleExpert, model.RoleBank:
	default:
		return nil, errors.New(errors.ErrValidation, "无效的用户角色")
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "用户名已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		RealName:     realName,
		RoleType:     roleType,
		Phone:        phone,
		Email:        email,
		IDCard:       idCard,
		Status:       1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	util.Logger.Info("用户注册成功",
		zap.Int("user_id", user.ID),
		zap.String("username", username),
		zap.Int("role_type", roleType))
	return user, nil
}

// Login 校验用户名密码并签发令牌
func (s *UserService) Login(username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return "", nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("登录密码错误", zap.String("username", username))
		return "", nil, errors.New(errors.ErrInvalidCredentials, "用户名或密码错误")
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInternal, "生成令牌失败", err)
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return token, user, nil
}

// ChangePassword 修改密码，需要校验旧密码
func (s *UserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少8位")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrUserNotFound, "用户不存在", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New(errors.ErrInvalidCredentials, "旧密码错误")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码加密失败", err)
	}
	if err := s.userRepo.UpdatePassword(userID, string(hash)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新密码失败", err)
	}

	util.Logger.Info("用户修改密码成功", zap.Int("user_id", userID))
	return nil
}

// GetUserByID 查询用户
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	return s.userRepo.FindByID(id)
}

// UpdateProfile 更新用户资料
func (s *UserService) UpdateProfile(user *model.User) error {
	return s.userRepo.Update(user)
}

// UploadAvatar 上传用户头像并更新资料
func (s *UserService) UploadAvatar(userID int, file *multipart.FileHeader) (string, error) {
	if !util.IsValidImageExt(file.Filename) {
		return "", errors.New(errors.ErrValidation, "不支持的图片格式")
	}

	path := fmt.Sprintf("avatars/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := s.storage.UploadFile(file, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "上传头像失败", err)
	}

	if err := s.userRepo.UpdateAvatar(userID, url); err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "更新头像失败", err)
	}
	return url, nil
}

// ListUsers 分页查询用户列表
func (s *UserService) ListUsers(page, pageSize int) ([]*model.User, int, error) {
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	users, err := s.userRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DeleteUser 删除用户
func (s *UserService) DeleteUser(id int) error {
	return s.userRepo.Delete(id)
}

// CreateAddress 新增收货地址
func (s *UserService) CreateAddress(address *model.UserAddress) error {
	if address.AddressName == "" {
		return errors.New(errors.ErrValidation, "地址不能为空")
	}
	return s.userRepo.CreateAddress(address)
}

// UpdateAddress 更新收货地址，只能修改自己的地址
func (s *UserService) UpdateAddress(userID int, address *model.UserAddress) error {
	existing, err := s.userRepo.GetAddressByID(address.ID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "收货地址不存在", err)
	}
	if existing.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能修改自己的地址")
	}
	return s.userRepo.UpdateAddress(address)
}

// DeleteAddress 删除收货地址
func (s *UserService) DeleteAddress(userID, addressID int) error {
	existing, err := s.userRepo.GetAddressByID(addressID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "收货地址不存在", err)
	}
	if existing.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能删除自己的地址")
	}
	return s.userRepo.DeleteAddress(addressID)
}

// ListAddresses 查询用户的收货地址
func (s *UserService) ListAddresses(userID int) ([]*model.UserAddress, error) {
	return s.userRepo.ListUserAddresses(userID)
}
