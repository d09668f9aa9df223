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
)

type ProductService struct {
	productRepo interfaces.ProductRepository
	storage     storage.Storage
}

// NewProductService 创建一个新的 ProductService 实例
func NewProductService(productRepo interfaces.ProductRepository, storage storage.Storage) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storage:     storage,
	}
}

// Publish 农户发布农产品
func (s *ProductService) Publish(product *model.Product) error {
	if product.Price <= 0 {
		return errors.New(errors.ErrValidation, "价格必须为正数")
	}
	if product.TotalVolume <= 0 {
		return errors.New(errors.ErrValidation, "总量必须为正数")
	}
	if err := s.productRepo.Create(product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "发布商品失败", err)
	}
	util.Logger.Info("商品发布成功",
		zap.Int("product_id", product.ID),
		zap.Int("user_id", product.UserID))
	return nil
}

// UploadImage 上传商品图片
func (s *ProductService) UploadImage(file *multipart.FileHeader) (string, error) {
	if !util.IsValidImageExt(file.Filename) {
		return "", errors.New(errors.ErrValidation, "不支持的图片格式")
	}
	path := fmt.Sprintf("products/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := s.storage.UploadFile(file, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "上传图片失败", err)
	}
	return url, nil
}

// GetProduct 查询商品详情
func (s *ProductService) GetProduct(id int) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

// ListListed 分页查询已上架商品
func (s *ProductService) ListListed(page, pageSize int) ([]*model.Product, error) {
	return s.productRepo.FindListed(page, pageSize)
}

// ListByFarmer 查询农户发布的商品
func (s *ProductService) ListByFarmer(userID int) ([]*model.Product, error) {
	return s.productRepo.FindByFarmer(userID)
}

// Search 搜索已上架商品
func (s *ProductService) Search(keyword string, page, pageSize int) ([]*model.Product, error) {
	return s.productRepo.Search(keyword, page, pageSize)
}

// Update 更新商品信息，只能修改自己的商品
func (s *ProductService) Update(userID int, product *model.Product) error {
	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}
	if existing.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能修改自己的商品")
	}
	return s.productRepo.Update(product)
}

// Relist 重新上架已下架的商品
func (s *ProductService) Relist(userID, productID int) error {
	existing, err := s.productRepo.FindByID(productID)
	if err != nil {
		return errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}
	if existing.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能上架自己的商品")
	}
	if existing.Status == model.ProductStatusListed {
		return errors.New(errors.ErrOrderStateConflict, "商品已在售")
	}
	return s.productRepo.UpdateStatus(productID, model.ProductStatusListed)
}

// AddToCart 加入购物车
func (s *ProductService) AddToCart(userID, productID, amount int) (*model.CartItem, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrValidation, "数量必须为正数")
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}
	if product.Status != model.ProductStatusListed {
		return nil, errors.New(errors.ErrOrderStateConflict, "商品已下架")
	}
	if product.Surplus < amount {
		return nil, errors.New(errors.ErrInsufficientStock, "商品库存不足")
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
	}
	if err := s.productRepo.AddCartItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListCart 查询购物车
func (s *ProductService) ListCart(userID int) ([]*model.CartItem, error) {
	return s.productRepo.ListCartItems(userID)
}

// UpdateCartAmount 修改购物车条目数量，只能修改自己的购物车
func (s *ProductService) UpdateCartAmount(userID, cartID, amount int) error {
	if amount <= 0 {
		return errors.New(errors.ErrValidation, "数量必须为正数")
	}
	item, err := s.productRepo.GetCartItem(cartID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "购物车条目不存在", err)
	}
	if item.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能操作自己的购物车")
	}
	return s.productRepo.UpdateCartAmount(cartID, amount)
}

// RemoveFromCart 删除购物车条目
func (s *ProductService) RemoveFromCart(userID, cartID int) error {
	item, err := s.productRepo.GetCartItem(cartID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "购物车条目不存在", err)
	}
	if item.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能操作自己的购物车")
	}
	return s.productRepo.RemoveCartItem(cartID)
}
