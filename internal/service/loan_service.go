package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/repository/interfaces"
	"agrimarket-backend/internal/storage"
	"agrimarket-backend/internal/util"
	"database/sql"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
)

type LoanService struct {
	loanRepo interfaces.LoanRepository
	userRepo interfaces.UserRepository
	db       *sql.DB
	storage  storage.Storage
}

// NewLoanService 创建一个新的 LoanService 实例
func NewLoanService(loanRepo interfaces.LoanRepository, userRepo interfaces.UserRepository, db *sql.DB, store storage.Storage) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
		db:       db,
		storage:  store,
	}
}

// UploadDocument 上传贷款申请材料，返回存储路径
func (s *LoanService) UploadDocument(file *multipart.FileHeader) (string, error) {
	path := fmt.Sprintf("loan-documents/%s", util.GenerateUniqueFilename(file.Filename))
	url, err := s.storage.UploadFile(file, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "上传申请材料失败", err)
	}
	return url, nil
}

// Apply 提交贷款申请，金额必须在产品限额内
func (s *LoanService) Apply(userID, productID int, amount float64, term int, documents []string) (*model.LoanApplication, error) {
	fp, err := s.loanRepo.FindFinancialProductByID(productID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrResourceNotFound, "金融产品不存在", err)
	}
	if amount < fp.MinAmount || amount > fp.MaxAmount {
		return nil, errors.New(errors.ErrValidation, "贷款金额超出产品限额")
	}
	if term <= 0 {
		return nil, errors.New(errors.ErrValidation, "贷款期限必须为正数")
	}

	app := &model.LoanApplication{
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
		Term:      term,
		Documents: strings.Join(documents, ","),
		Status:    model.LoanStatusSubmitted,
		ApplyTime: time.Now(),
	}
	if err := s.loanRepo.CreateApplication(app); err != nil {
		return nil, err
	}

	util.Logger.Info("贷款申请提交成功",
		zap.Int("application_id", app.ID),
		zap.Int("user_id", userID),
		zap.Float64("amount", amount))
	return app, nil
}

// planDueDates 生成各期到期日，每期为未来第n个月的最后一天
func planDueDates(from time.Time, term int) []time.Time {
	dates := make([]time.Time, 0, term)
	for i := 1; i <= term; i++ {
		firstOfNext := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, i+1, 0)
		dates = append(dates, firstOfNext.AddDate(0, 0, -1))
	}
	return dates
}

// Approve 审批贷款申请。只有待审批的申请可以被审批，通过时在同一事务内生成还款计划。
func (s *LoanService) Approve(approverID, applicationID int, decision bool, opinion string) error {
	app, err := s.loanRepo.FindApplicationByID(applicationID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "贷款申请不存在", err)
	}
	if app.Status != model.LoanStatusSubmitted {
		return errors.New(errors.ErrLoanStateConflict, "该申请已审批，不能重复审批")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	newStatus := model.LoanStatusRejected
	if decision {
		newStatus = model.LoanStatusApproved
	}

	result, err := tx.Exec(`UPDATE loan_application SET status = ? WHERE application_id = ? AND status = ?`,
		newStatus, applicationID, model.LoanStatusSubmitted)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New(errors.ErrLoanStateConflict, "该申请已审批，不能重复审批")
	}

	if _, err := tx.Exec(`
		INSERT INTO approval_record (application_id, approver_id, decision, opinion, approval_time)
		VALUES (?, ?, ?, ?, ?)`,
		applicationID, approverID, decision, opinion, time.Now()); err != nil {
		util.Logger.Error("写入审批记录失败", zap.Error(err))
		return err
	}

	if decision {
		perTerm := app.Amount / float64(app.Term)
		for _, due := range planDueDates(time.Now(), app.Term) {
			if _, err := tx.Exec(`
				INSERT INTO repayment_plan (application_id, due_date, remaining_amount, status)
				VALUES (?, ?, ?, ?)`,
				applicationID, due, perTerm, model.PlanStatusUnpaid); err != nil {
				util.Logger.Error("生成还款计划失败", zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("贷款审批完成",
		zap.Int("application_id", applicationID),
		zap.Bool("decision", decision))
	return nil
}

// Repay 还款。还款金额依到期日顺序冲抵各期计划，超出未还总额的部分按总额截断。
func (s *LoanService) Repay(userID, applicationID int, amount float64) (*model.RepaymentRecord, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrValidation, "还款金额必须为正数")
	}

	app, err := s.loanRepo.FindApplicationByID(applicationID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrResourceNotFound, "贷款申请不存在", err)
	}
	if app.UserID != userID {
		return nil, errors.New(errors.ErrForbidden, "只能偿还自己的贷款")
	}
	switch app.Status {
	case model.LoanStatusApproved, model.LoanStatusRepaying, model.LoanStatusOverdue:
	default:
		return nil, errors.New(errors.ErrLoanStateConflict, "当前状态不允许还款")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT plan_id, due_date, remaining_amount, status
		FROM repayment_plan WHERE application_id = ? ORDER BY due_date`, applicationID)
	if err != nil {
		return nil, err
	}
	var plans []*model.RepaymentPlan
	for rows.Next() {
		var plan model.RepaymentPlan
		if err := rows.Scan(&plan.ID, &plan.DueDate, &plan.RemainingAmount, &plan.Status); err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, &plan)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var outstanding float64
	for _, plan := range plans {
		outstanding += plan.RemainingAmount
	}
	if outstanding <= 0 {
		return nil, errors.New(errors.ErrLoanStateConflict, "贷款已结清")
	}

	// 超额还款按未还总额截断
	paid := amount
	if paid > outstanding {
		paid = outstanding
	}

	remaining := paid
	for _, plan := range plans {
		if remaining <= 0 {
			break
		}
		if plan.RemainingAmount <= 0 {
			continue
		}
		deduct := plan.RemainingAmount
		if deduct > remaining {
			deduct = remaining
		}
		plan.RemainingAmount -= deduct
		remaining -= deduct

		newStatus := plan.Status
		if plan.RemainingAmount == 0 {
			newStatus = model.PlanStatusPaid
		}
		if _, err := tx.Exec(`UPDATE repayment_plan SET remaining_amount = ?, status = ? WHERE plan_id = ?`,
			plan.RemainingAmount, newStatus, plan.ID); err != nil {
			util.Logger.Error("更新还款计划失败", zap.Int("plan_id", plan.ID), zap.Error(err))
			return nil, err
		}
	}

	record := &model.RepaymentRecord{
		ApplicationID: applicationID,
		UserID:        userID,
		Amount:        paid,
		RepayTime:     time.Now(),
		Status:        model.RecordStatusPaid,
	}
	res, err := tx.Exec(`INSERT INTO repayment_record (application_id, user_id, amount, repay_time, status) VALUES (?, ?, ?, ?, ?)`,
		record.ApplicationID, record.UserID, record.Amount, record.RepayTime, record.Status)
	if err != nil {
		return nil, err
	}
	recordID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	record.ID = int(recordID)

	// 重新核算申请状态：结清、逾期或还款中
	newAppStatus := model.LoanStatusRepaying
	if paid == outstanding {
		newAppStatus = model.LoanStatusSettled
	} else {
		today := time.Now()
		for _, plan := range plans {
			if plan.RemainingAmount > 0 && plan.DueDate.Before(today) {
				newAppStatus = model.LoanStatusOverdue
				break
			}
		}
	}
	if _, err := tx.Exec(`UPDATE loan_application SET status = ? WHERE application_id = ?`,
		newAppStatus, applicationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.Logger.Info("还款成功",
		zap.Int("application_id", applicationID),
		zap.Float64("amount", paid),
		zap.Int("new_status", newAppStatus))
	return record, nil
}

// CheckOverdue 核查单个申请的逾期情况，标记过期未还的计划并更新申请状态
func (s *LoanService) CheckOverdue(applicationID int) error {
	app, err := s.loanRepo.FindApplicationByID(applicationID)
	if err != nil {
		return err
	}
	if app.Status == model.LoanStatusSettled || app.Status == model.LoanStatusRejected ||
		app.Status == model.LoanStatusSubmitted {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE repayment_plan SET status = ?
		WHERE application_id = ? AND remaining_amount > 0 AND due_date < ?`,
		model.PlanStatusOverdue, applicationID, time.Now())
	if err != nil {
		return err
	}
	overdueCount, err := result.RowsAffected()
	if err != nil {
		return err
	}

	var hasOverdue bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM repayment_plan
		WHERE application_id = ? AND remaining_amount > 0 AND due_date < ?)`,
		applicationID, time.Now()).Scan(&hasOverdue)
	if err != nil {
		return err
	}
	if hasOverdue {
		if _, err := tx.Exec(`UPDATE loan_application SET status = ? WHERE application_id = ?`,
			model.LoanStatusOverdue, applicationID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if overdueCount > 0 {
		util.Logger.Info("标记逾期还款计划",
			zap.Int("application_id", applicationID),
			zap.Int64("count", overdueCount))
	}
	return nil
}

// ScanOverdue 扫描所有在还申请的逾期情况，由后台任务周期调用
func (s *LoanService) ScanOverdue() {
	for _, status := range []int{model.LoanStatusApproved, model.LoanStatusRepaying} {
		apps, err := s.loanRepo.ListApplicationsByStatus(status)
		if err != nil {
			util.Logger.Error("扫描贷款申请失败", zap.Int("status", status), zap.Error(err))
			continue
		}
		for _, app := range apps {
			if err := s.CheckOverdue(app.ID); err != nil {
				util.Logger.Error("逾期核查失败", zap.Int("application_id", app.ID), zap.Error(err))
			}
		}
	}
}

// GetApplication 查询贷款申请详情，附带还款计划与记录
func (s *LoanService) GetApplication(id int) (*model.LoanApplication, []*model.RepaymentPlan, []*model.RepaymentRecord, error) {
	app, err := s.loanRepo.FindApplicationByID(id)
	if err != nil {
		return nil, nil, nil, errors.Wrap(errors.ErrResourceNotFound, "贷款申请不存在", err)
	}
	plans, err := s.loanRepo.ListPlansByApplication(id)
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := s.loanRepo.ListRecordsByApplication(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, plans, records, nil
}

// ListUserApplications 查询用户的贷款申请
func (s *LoanService) ListUserApplications(userID int) ([]*model.LoanApplication, error) {
	return s.loanRepo.ListApplicationsByUser(userID)
}

// ListPendingApplications 查询待审批的贷款申请
func (s *LoanService) ListPendingApplications() ([]*model.LoanApplication, error) {
	return s.loanRepo.ListApplicationsByStatus(model.LoanStatusSubmitted)
}

// ListAllApplications 分页查询全部贷款申请
func (s *LoanService) ListAllApplications(page, pageSize int) ([]*model.LoanApplication, error) {
	return s.loanRepo.ListAllApplications(page, pageSize)
}

// ListApprovals 查询申请的审批记录
func (s *LoanService) ListApprovals(applicationID int) ([]*model.ApprovalRecord, error) {
	return s.loanRepo.ListApprovalsByApplication(applicationID)
}

// CreateFinancialProduct 创建金融产品
func (s *LoanService) CreateFinancialProduct(fp *model.FinancialProduct) error {
	if fp.MinAmount > fp.MaxAmount {
		return errors.New(errors.ErrValidation, "最低金额不能大于最高金额")
	}
	return s.loanRepo.CreateFinancialProduct(fp)
}

// GetFinancialProduct 查询金融产品
func (s *LoanService) GetFinancialProduct(id int) (*model.FinancialProduct, error) {
	return s.loanRepo.FindFinancialProductByID(id)
}

// ListFinancialProducts 查询全部金融产品
func (s *LoanService) ListFinancialProducts() ([]*model.FinancialProduct, error) {
	return s.loanRepo.ListFinancialProducts()
}

// UpdateFinancialProduct 更新金融产品
func (s *LoanService) UpdateFinancialProduct(fp *model.FinancialProduct) error {
	if fp.MinAmount > fp.MaxAmount {
		return errors.New(errors.ErrValidation, "最低金额不能大于最高金额")
	}
	return s.loanRepo.UpdateFinancialProduct(fp)
}

// DeleteFinancialProduct 删除金融产品
func (s *LoanService) DeleteFinancialProduct(id int) error {
	return s.loanRepo.DeleteFinancialProduct(id)
}

// CreateLoanStatus 新增贷款状态字典项
func (s *LoanService) CreateLoanStatus(ls *model.LoanStatus) error {
	if ls.StatusName == "" {
		return errors.New(errors.ErrValidation, "状态名称不能为空")
	}
	return s.loanRepo.CreateLoanStatus(ls)
}

// UpdateLoanStatus 更新贷款状态字典项
func (s *LoanService) UpdateLoanStatus(ls *model.LoanStatus) error {
	if ls.StatusName == "" {
		return errors.New(errors.ErrValidation, "状态名称不能为空")
	}
	return s.loanRepo.UpdateLoanStatus(ls)
}

// DeleteLoanStatus 删除贷款状态字典项
func (s *LoanService) DeleteLoanStatus(id int) error {
	return s.loanRepo.DeleteLoanStatus(id)
}

// ListLoanStatuses 查询贷款状态字典
func (s *LoanService) ListLoanStatuses() ([]*model.LoanStatus, error) {
	return s.loanRepo.ListLoanStatuses()
}
