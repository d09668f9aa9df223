package service

import (
	"agrimarket-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, new(MockStorage))

	mockRepo.On("FindByUsername", "farmer01").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.Register("farmer01", "password123", "张三", "13800000000", "", "", model.RoleFarmer)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	mockRepo.AssertExpectations(t)

	// 用户名已存在
	mockRepo.On("FindByUsername", "existing").Return(&model.User{}, nil)
	_, err = svc.Register("existing", "password123", "李四", "13800000001", "", "", model.RoleBuyer)
	assert.Error(t, err)

	// 弱密码
	_, err = svc.Register("farmer02", "123", "王五", "13800000002", "", "", model.RoleFarmer)
	assert.Error(t, err)

	// 不允许直接注册管理员
	_, err = svc.Register("sneaky", "password123", "赵六", "13800000003", "", "", model.RoleAdmin)
	assert.Error(t, err)
}

// TestLogin 测试用户登录功能
func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, new(MockStorage))

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("FindByUsername", "farmer01").Return(&model.User{
		ID: 1, Username: "farmer01", PasswordHash: string(hash),
	}, nil)

	token, user, err := svc.Login("farmer01", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, user.ID)

	// 密码错误
	_, _, err = svc.Login("farmer01", "wrongpass")
	assert.Error(t, err)

	// 用户不存在
	mockRepo.On("FindByUsername", "nobody").Return(nil, nil)
	_, _, err = svc.Login("nobody", "password123")
	assert.Error(t, err)
}

// TestChangePassword 测试修改密码功能
func TestChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, new(MockStorage))

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1, PasswordHash: string(hash)}, nil)
	mockRepo.On("UpdatePassword", 1, mock.AnythingOfType("string")).Return(nil)

	assert.NoError(t, svc.ChangePassword(1, "oldpassword", "newpassword"))

	// 旧密码错误
	assert.Error(t, svc.ChangePassword(1, "wrongold", "newpassword"))

	// 新密码过短
	assert.Error(t, svc.ChangePassword(1, "oldpassword", "short"))
}

// TestAddressOwnership 测试地址操作的归属校验
func TestAddressOwnership(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, new(MockStorage))

	mockRepo.On("GetAddressByID", 3).Return(&model.UserAddress{ID: 3, UserID: 7}, nil)

	err := svc.DeleteAddress(99, 3)
	assert.Error(t, err)

	mockRepo.On("DeleteAddress", 3).Return(nil)
	assert.NoError(t, svc.DeleteAddress(7, 3))
}
