package service

import (
	"agrimarket-backend/config"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/payment"
	"agrimarket-backend/internal/util"
	"mime/multipart"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	config.AppConfig.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(userID int, imageURL string) error {
	args := m.Called(userID, imageURL)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID int, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) FindExperts() ([]*model.User, error) {
	args := m.Called()
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateAddress(address *model.UserAddress) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAddress(address *model.UserAddress) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteAddress(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) GetAddressByID(id int) (*model.UserAddress, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserAddress), args.Error(1)
}

func (m *MockUserRepository) ListUserAddresses(userID int) ([]*model.UserAddress, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.UserAddress), args.Error(1)
}

// MockProductRepository 是 ProductRepository 接口的模拟实现
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(id int) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(page, pageSize int) ([]*model.Product, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindListed(page, pageSize int) ([]*model.Product, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByFarmer(userID int) ([]*model.Product, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) Search(keyword string, page, pageSize int) ([]*model.Product, error) {
	args := m.Called(keyword, page, pageSize)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStatus(id, status int) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) AddCartItem(item *model.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockProductRepository) GetCartItem(id int) (*model.CartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockProductRepository) ListCartItems(userID int) ([]*model.CartItem, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.CartItem), args.Error(1)
}

func (m *MockProductRepository) UpdateCartAmount(id, amount int) error {
	args := m.Called(id, amount)
	return args.Error(0)
}

func (m *MockProductRepository) RemoveCartItem(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockOrderRepository 是 OrderRepository 接口的模拟实现
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(id int) (*model.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *MockOrderRepository) FindByTradeNo(tradeNo string) (*model.Purchase, error) {
	args := m.Called(tradeNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *MockOrderRepository) ListByBuyer(userID int) ([]*model.Purchase, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Purchase), args.Error(1)
}

func (m *MockOrderRepository) ListByFarmer(farmerID int) ([]*model.Purchase, error) {
	args := m.Called(farmerID)
	return args.Get(0).([]*model.Purchase), args.Error(1)
}

func (m *MockOrderRepository) ListByProduct(productID int) ([]*model.Purchase, error) {
	args := m.Called(productID)
	return args.Get(0).([]*model.Purchase), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id, status int) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockExpertRepository 是 ExpertRepository 接口的模拟实现
type MockExpertRepository struct {
	mock.Mock
}

func (m *MockExpertRepository) Create(appointment *model.ExpertAppointment) error {
	args := m.Called(appointment)
	return args.Error(0)
}

func (m *MockExpertRepository) FindByID(id int64) (*model.ExpertAppointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExpertAppointment), args.Error(1)
}

func (m *MockExpertRepository) ListByExpert(expertID int) ([]*model.ExpertAppointment, error) {
	args := m.Called(expertID)
	return args.Get(0).([]*model.ExpertAppointment), args.Error(1)
}

func (m *MockExpertRepository) ListByUser(userID int) ([]*model.ExpertAppointment, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.ExpertAppointment), args.Error(1)
}

func (m *MockExpertRepository) ListByExpertAndDate(expertID int, date string) ([]*model.ExpertAppointment, error) {
	args := m.Called(expertID, date)
	return args.Get(0).([]*model.ExpertAppointment), args.Error(1)
}

func (m *MockExpertRepository) UpdateStatus(id int64, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockExpertRepository) UpdateReview(id int64, comment, report string) error {
	args := m.Called(id, comment, report)
	return args.Error(0)
}

// MockCommentRepository 是 CommentRepository 接口的模拟实现
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *model.ProductComment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(id int64) (*model.ProductComment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductComment), args.Error(1)
}

func (m *MockCommentRepository) ListByProduct(productID int) ([]*model.ProductComment, error) {
	args := m.Called(productID)
	return args.Get(0).([]*model.ProductComment), args.Error(1)
}

func (m *MockCommentRepository) ListReplies(rootID int64) ([]*model.ProductComment, error) {
	args := m.Called(rootID)
	return args.Get(0).([]*model.ProductComment), args.Error(1)
}

func (m *MockCommentRepository) Like(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteTree(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockStorage 是 Storage 接口的模拟实现
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	args := m.Called(file, path)
	return args.String(0), args.Error(1)
}

// MockPayClient 是支付客户端的模拟实现
type MockPayClient struct {
	mock.Mock
}

func (m *MockPayClient) CreatePayURL(tradeNo, subject string, totalAmount float64) (string, error) {
	args := m.Called(tradeNo, subject, totalAmount)
	return args.String(0), args.Error(1)
}

func (m *MockPayClient) ParseNotification(req *http.Request) (*payment.Notification, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Notification), args.Error(1)
}
