package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/payment"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newOrderServiceForTest(t *testing.T) (*OrderService, sqlmock.Sqlmock, *MockOrderRepository, *MockProductRepository, *MockUserRepository) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建sqlmock失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	userRepo := new(MockUserRepository)
	payClient := new(MockPayClient)

	svc, err := NewOrderService(orderRepo, productRepo, userRepo, payClient, db)
	assert.NoError(t, err)
	return svc, dbMock, orderRepo, productRepo, userRepo
}

// TestPurchaseProduct 测试直接购买：库存扣减与订单落库在同一事务内
func TestPurchaseProduct(t *testing.T) {
	svc, dbMock, _, _, userRepo := newOrderServiceForTest(t)

	userRepo.On("GetAddressByID", 3).Return(&model.UserAddress{ID: 3, UserID: 7, AddressName: "测试村1号"}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT price, status FROM product WHERE product_id = ?`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"price", "status"}).AddRow(5.5, model.ProductStatusListed))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE product`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO purchase`)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	dbMock.ExpectCommit()

	purchase, err := svc.PurchaseProduct(7, 10, 4, 3)
	assert.NoError(t, err)
	assert.Equal(t, 42, purchase.ID)
	assert.Equal(t, model.PurchaseStatusPaid, purchase.Status)
	assert.Equal(t, 22.0, purchase.TotalPrice)
	assert.NotEmpty(t, purchase.TradeNo)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestPurchaseInsufficientStock 测试库存不足时购买整体失败并回滚
func TestPurchaseInsufficientStock(t *testing.T) {
	svc, dbMock, _, _, userRepo := newOrderServiceForTest(t)

	userRepo.On("GetAddressByID", 3).Return(&model.UserAddress{ID: 3, UserID: 7, AddressName: "测试村1号"}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT price, status FROM product WHERE product_id = ?`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"price", "status"}).AddRow(5.5, model.ProductStatusListed))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE product`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectRollback()

	_, err := svc.PurchaseProduct(7, 10, 9999, 3)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInsufficientStock, appErr.Code)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestPurchaseDelistedProduct 测试已下架商品不能购买
func TestPurchaseDelistedProduct(t *testing.T) {
	svc, dbMock, _, _, userRepo := newOrderServiceForTest(t)

	userRepo.On("GetAddressByID", 3).Return(&model.UserAddress{ID: 3, UserID: 7, AddressName: "测试村1号"}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT price, status FROM product WHERE product_id = ?`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"price", "status"}).AddRow(5.5, model.ProductStatusDelisted))
	dbMock.ExpectRollback()

	_, err := svc.PurchaseProduct(7, 10, 1, 3)
	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestPurchaseOthersAddress 测试使用他人收货地址被拒绝
func TestPurchaseOthersAddress(t *testing.T) {
	svc, _, _, _, userRepo := newOrderServiceForTest(t)

	userRepo.On("GetAddressByID", 3).Return(&model.UserAddress{ID: 3, UserID: 99, AddressName: "别人家"}, nil)

	_, err := svc.PurchaseProduct(7, 10, 1, 3)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

// TestCancelRestock 测试取消订单回补库存
func TestCancelRestock(t *testing.T) {
	svc, dbMock, orderRepo, _, _ := newOrderServiceForTest(t)

	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusPaid,
	}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE purchase SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE product`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	err := svc.Cancel(7, 5)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestCancelShippedOrder 测试已发货订单不能取消
func TestCancelShippedOrder(t *testing.T) {
	svc, _, orderRepo, _, _ := newOrderServiceForTest(t)

	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusShipped,
	}, nil)

	err := svc.Cancel(7, 5)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrOrderStateConflict, appErr.Code)
}

// TestReturnOnlyAfterShip 测试退货只允许已发货或已收货的订单
func TestReturnOnlyAfterShip(t *testing.T) {
	svc, dbMock, orderRepo, _, _ := newOrderServiceForTest(t)

	// 已支付未发货的订单不能退货
	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusPaid,
	}, nil).Once()
	err := svc.Return(7, 5)
	assert.Error(t, err)

	// 已收货的订单可以退货
	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusReceived,
	}, nil).Once()

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE purchase SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE product`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	err = svc.Return(7, 5)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestShipFlow 测试发货与收货的状态流转
func TestShipFlow(t *testing.T) {
	svc, _, orderRepo, productRepo, _ := newOrderServiceForTest(t)

	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusPaid,
	}, nil).Once()
	productRepo.On("FindByID", 10).Return(&model.Product{ID: 10, UserID: 2}, nil)
	orderRepo.On("UpdateStatus", 5, model.PurchaseStatusShipped).Return(nil).Once()

	assert.NoError(t, svc.Ship(2, 5))

	orderRepo.On("FindByID", 5).Return(&model.Purchase{
		ID: 5, UserID: 7, ProductID: 10, Amount: 2,
		Status: model.PurchaseStatusShipped,
	}, nil).Once()
	orderRepo.On("UpdateStatus", 5, model.PurchaseStatusReceived).Return(nil).Once()

	assert.NoError(t, svc.Receive(7, 5))
	orderRepo.AssertExpectations(t)
}

// TestDelistForceCancel 测试下架商品时强制取消在途订单且不回补库存
func TestDelistForceCancel(t *testing.T) {
	svc, dbMock, _, productRepo, _ := newOrderServiceForTest(t)

	productRepo.On("FindByID", 10).Return(&model.Product{
		ID: 10, UserID: 2, Status: model.ProductStatusListed,
	}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE product SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE purchase SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	dbMock.ExpectCommit()

	err := svc.DelistProduct(2, 10)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestConfirmPaymentIdempotent 测试支付通知对已支付订单幂等
func TestConfirmPaymentIdempotent(t *testing.T) {
	svc, _, orderRepo, _, _ := newOrderServiceForTest(t)

	orderRepo.On("FindByTradeNo", "T123").Return(&model.Purchase{
		ID: 5, Status: model.PurchaseStatusPaid,
	}, nil)

	err := svc.ConfirmPayment(&payment.Notification{OutTradeNo: "T123", TradeStatus: "TRADE_SUCCESS"})
	assert.NoError(t, err)
	orderRepo.AssertNotCalled(t, "UpdateStatus")
}

// TestListProductOrders 测试按商品查询订单的归属校验
func TestListProductOrders(t *testing.T) {
	svc, _, orderRepo, productRepo, _ := newOrderServiceForTest(t)

	productRepo.On("FindByID", 10).Return(&model.Product{ID: 10, UserID: 5}, nil)

	// 不是商品主人
	_, err := svc.ListProductOrders(99, 10)
	assert.Error(t, err)

	orderRepo.On("ListByProduct", 10).Return([]*model.Purchase{
		{ID: 1, ProductID: 10}, {ID: 2, ProductID: 10},
	}, nil)
	purchases, err := svc.ListProductOrders(5, 10)
	assert.NoError(t, err)
	assert.Len(t, purchases, 2)
}
