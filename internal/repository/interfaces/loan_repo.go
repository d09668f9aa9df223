package interfaces

import "agrimarket-backend/internal/model"

// LoanRepository 接口定义了贷款仓库应该实现的方法
type LoanRepository interface {
	CreateApplication(app *model.LoanApplication) error
	FindApplicationByID(id int) (*model.LoanApplication, error)
	ListApplicationsByUser(userID int) ([]*model.LoanApplication, error)
	ListApplicationsByStatus(status int) ([]*model.LoanApplication, error)
	ListAllApplications(page, pageSize int) ([]*model.LoanApplication, error)
	ListPlansByApplication(applicationID int) ([]*model.RepaymentPlan, error)
	ListRecordsByApplication(applicationID int) ([]*model.RepaymentRecord, error)
	ListApprovalsByApplication(applicationID int) ([]*model.ApprovalRecord, error)
	CreateFinancialProduct(fp *model.FinancialProduct) error
	FindFinancialProductByID(id int) (*model.FinancialProduct, error)
	ListFinancialProducts() ([]*model.FinancialProduct, error)
	UpdateFinancialProduct(fp *model.FinancialProduct) error
	DeleteFinancialProduct(id int) error
	ListLoanStatuses() ([]*model.LoanStatus, error)
	CreateLoanStatus(ls *model.LoanStatus) error
	UpdateLoanStatus(ls *model.LoanStatus) error
	DeleteLoanStatus(id int) error
}
