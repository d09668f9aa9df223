package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLoanRepository 是 LoanRepository 接口的模拟实现
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateApplication(app *model.LoanApplication) error {
	args := m.Called(app)
	return args.Error(0)
}

func (m *MockLoanRepository) FindApplicationByID(id int) (*model.LoanApplication, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockLoanRepository) ListApplicationsByUser(userID int) ([]*model.LoanApplication, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.LoanApplication), args.Error(1)
}

func (m *MockLoanRepository) ListApplicationsByStatus(status int) ([]*model.LoanApplication, error) {
	args := m.Called(status)
	return args.Get(0).([]*model.LoanApplication), args.Error(1)
}

func (m *MockLoanRepository) ListAllApplications(page, pageSize int) ([]*model.LoanApplication, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.LoanApplication), args.Error(1)
}

func (m *MockLoanRepository) ListPlansByApplication(applicationID int) ([]*model.RepaymentPlan, error) {
	args := m.Called(applicationID)
	return args.Get(0).([]*model.RepaymentPlan), args.Error(1)
}

func (m *MockLoanRepository) ListRecordsByApplication(applicationID int) ([]*model.RepaymentRecord, error) {
	args := m.Called(applicationID)
	return args.Get(0).([]*model.RepaymentRecord), args.Error(1)
}

func (m *MockLoanRepository) ListApprovalsByApplication(applicationID int) ([]*model.ApprovalRecord, error) {
	args := m.Called(applicationID)
	return args.Get(0).([]*model.ApprovalRecord), args.Error(1)
}

func (m *MockLoanRepository) CreateFinancialProduct(fp *model.FinancialProduct) error {
	args := m.Called(fp)
	return args.Error(0)
}

func (m *MockLoanRepository) FindFinancialProductByID(id int) (*model.FinancialProduct, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FinancialProduct), args.Error(1)
}

func (m *MockLoanRepository) ListFinancialProducts() ([]*model.FinancialProduct, error) {
	args := m.Called()
	return args.Get(0).([]*model.FinancialProduct), args.Error(1)
}

func (m *MockLoanRepository) UpdateFinancialProduct(fp *model.FinancialProduct) error {
	args := m.Called(fp)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteFinancialProduct(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockLoanRepository) CreateLoanStatus(ls *model.LoanStatus) error {
	args := m.Called(ls)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoanStatus(ls *model.LoanStatus) error {
	args := m.Called(ls)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteLoanStatus(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockLoanRepository) ListLoanStatuses() ([]*model.LoanStatus, error) {
	args := m.Called()
	return args.Get(0).([]*model.LoanStatus), args.Error(1)
}

func newLoanServiceForTest(t *testing.T) (*LoanService, sqlmock.Sqlmock, *MockLoanRepository) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建sqlmock失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	loanRepo := new(MockLoanRepository)
	userRepo := new(MockUserRepository)
	return NewLoanService(loanRepo, userRepo, db, new(MockStorage)), dbMock, loanRepo
}

// TestApplyAmountLimits 测试申请金额必须在产品限额内
func TestApplyAmountLimits(t *testing.T) {
	svc, _, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindFinancialProductByID", 1).Return(&model.FinancialProduct{
		ID: 1, MinAmount: 1000, MaxAmount: 50000, Term: 12,
	}, nil)

	_, err := svc.Apply(7, 1, 500, 6, nil)
	assert.Error(t, err)

	_, err = svc.Apply(7, 1, 60000, 6, nil)
	assert.Error(t, err)

	loanRepo.On("CreateApplication", mock.AnythingOfType("*model.LoanApplication")).Return(nil)
	app, err := svc.Apply(7, 1, 12000, 6, []string{"doc1.pdf", "doc2.pdf"})
	assert.NoError(t, err)
	assert.Equal(t, model.LoanStatusSubmitted, app.Status)
	assert.Equal(t, "doc1.pdf,doc2.pdf", app.Documents)
}

// TestApproveGeneratesPlans 测试审批通过时在事务内按期数生成还款计划
func TestApproveGeneratesPlans(t *testing.T) {
	svc, dbMock, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, UserID: 7, Amount: 1200, Term: 3,
		Status: model.LoanStatusSubmitted,
	}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE loan_application SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO approval_record`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for i := 0; i < 3; i++ {
		dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO repayment_plan`)).
			WithArgs(9, sqlmock.AnyArg(), 400.0, model.PlanStatusUnpaid).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	dbMock.ExpectCommit()

	err := svc.Approve(4, 9, true, "材料齐全")
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestApproveRejectSkipsPlans 测试审批拒绝时不生成还款计划
func TestApproveRejectSkipsPlans(t *testing.T) {
	svc, dbMock, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, UserID: 7, Amount: 1200, Term: 3,
		Status: model.LoanStatusSubmitted,
	}, nil)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE loan_application SET status = ?`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO approval_record`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	err := svc.Approve(4, 9, false, "材料不全")
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestNoReapproval 测试已审批的申请不能重复审批
func TestNoReapproval(t *testing.T) {
	svc, _, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, Status: model.LoanStatusApproved,
	}, nil)

	err := svc.Approve(4, 9, true, "")
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrLoanStateConflict, appErr.Code)
}

func planRows(plans ...*model.RepaymentPlan) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"plan_id", "due_date", "remaining_amount", "status"})
	for _, p := range plans {
		rows.AddRow(p.ID, p.DueDate, p.RemainingAmount, p.Status)
	}
	return rows
}

// TestRepayAllocation 测试还款按到期日顺序冲抵各期计划
func TestRepayAllocation(t *testing.T) {
	svc, dbMock, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, UserID: 7, Status: model.LoanStatusRepaying,
	}, nil)

	future := time.Now().AddDate(0, 1, 0)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT plan_id, due_date, remaining_amount, status`)).
		WillReturnRows(planRows(
			&model.RepaymentPlan{ID: 1, DueDate: future, RemainingAmount: 400, Status: model.PlanStatusUnpaid},
			&model.RepaymentPlan{ID: 2, DueDate: future.AddDate(0, 1, 0), RemainingAmount: 400, Status: model.PlanStatusUnpaid},
			&model.RepaymentPlan{ID: 3, DueDate: future.AddDate(0, 2, 0), RemainingAmount: 400, Status: model.PlanStatusUnpaid},
		))
	// 第一期还清，第二期部分冲抵
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE repayment_plan SET remaining_amount = ?`)).
		WithArgs(0.0, model.PlanStatusPaid, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE repayment_plan SET remaining_amount = ?`)).
		WithArgs(300.0, model.PlanStatusUnpaid, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO repayment_record`)).
		WithArgs(9, 7, 500.0, sqlmock.AnyArg(), model.RecordStatusPaid).
		WillReturnResult(sqlmock.NewResult(11, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE loan_application SET status = ?`)).
		WithArgs(model.LoanStatusRepaying, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	record, err := svc.Repay(7, 9, 500)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, record.Amount)
	assert.Equal(t, 7, record.UserID)
	assert.Equal(t, model.RecordStatusPaid, record.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestRepayOverpaymentCapped 测试超额还款按未还总额截断并结清贷款
func TestRepayOverpaymentCapped(t *testing.T) {
	svc, dbMock, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, UserID: 7, Status: model.LoanStatusRepaying,
	}, nil)

	future := time.Now().AddDate(0, 1, 0)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT plan_id, due_date, remaining_amount, status`)).
		WillReturnRows(planRows(
			&model.RepaymentPlan{ID: 1, DueDate: future, RemainingAmount: 100, Status: model.PlanStatusUnpaid},
		))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE repayment_plan SET remaining_amount = ?`)).
		WithArgs(0.0, model.PlanStatusPaid, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO repayment_record`)).
		WithArgs(9, 7, 100.0, sqlmock.AnyArg(), model.RecordStatusPaid).
		WillReturnResult(sqlmock.NewResult(12, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`UPDATE loan_application SET status = ?`)).
		WithArgs(model.LoanStatusSettled, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	record, err := svc.Repay(7, 9, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, record.Amount)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// TestRepayOthersLoan 测试不能偿还他人的贷款
func TestRepayOthersLoan(t *testing.T) {
	svc, _, loanRepo := newLoanServiceForTest(t)

	loanRepo.On("FindApplicationByID", 9).Return(&model.LoanApplication{
		ID: 9, UserID: 99, Status: model.LoanStatusRepaying,
	}, nil)

	_, err := svc.Repay(7, 9, 100)
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

// TestPlanDueDates 测试还款计划到期日为各未来月份的最后一天
func TestPlanDueDates(t *testing.T) {
	from := time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local)
	dates := planDueDates(from, 3)

	assert.Len(t, dates, 3)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local), dates[0])
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local), dates[1])
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.Local), dates[2])

	// 到期日严格递增
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]))
	}
}
