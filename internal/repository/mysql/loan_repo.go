package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
)

// loanRepository 实现了 LoanRepository 接口
type loanRepository struct {
	db *sql.DB
}

// NewLoanRepository 创建一个新的 loanRepository 实例
func NewLoanRepository(db *sql.DB) *loanRepository {
	return &loanRepository{db}
}

const applicationColumns = `a.application_id, a.user_id, a.product_id, a.amount, a.term, a.documents, a.status, a.apply_time,
       fp.fp_name, u.username, u.real_name`

func (r *loanRepository) queryApplications(query string, args ...interface{}) ([]*model.LoanApplication, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*model.LoanApplication
	for rows.Next() {
		var app model.LoanApplication
		if err := rows.Scan(
			&app.ID, &app.UserID, &app.ProductID, &app.Amount, &app.Term,
			&app.Documents, &app.Status, &app.ApplyTime,
			&app.FpName, &app.Username, &app.RealName,
		); err != nil {
			return nil, err
		}
		apps = append(apps, &app)
	}
	return apps, rows.Err()
}

// CreateApplication 创建贷款申请
func (r *loanRepository) CreateApplication(app *model.LoanApplication) error {
	log.Printf("尝试创建贷款申请：用户ID=%d 金额=%.2f", app.UserID, app.Amount)
	query := `INSERT INTO loan_application (user_id, product_id, amount, term, documents, status, apply_time)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, app.UserID, app.ProductID, app.Amount, app.Term,
		app.Documents, app.Status, app.ApplyTime)
	if err != nil {
		log.Printf("创建贷款申请失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = int(id)
	return nil
}

// FindApplicationByID 通过ID查找贷款申请
func (r *loanRepository) FindApplicationByID(id int) (*model.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_application a
              JOIN financial_product fp ON fp.fp_id = a.product_id
              JOIN user u ON u.user_id = a.user_id
              WHERE a.application_id = ?`
	var app model.LoanApplication
	err := r.db.QueryRow(query, id).Scan(
		&app.ID, &app.UserID, &app.ProductID, &app.Amount, &app.Term,
		&app.Documents, &app.Status, &app.ApplyTime,
		&app.FpName, &app.Username, &app.RealName,
	)
	if err != nil {
		log.Printf("查找贷款申请失败：%v", err)
		return nil, err
	}
	return &app, nil
}

// ListApplicationsByUser 查询用户的贷款申请
func (r *loanRepository) ListApplicationsByUser(userID int) ([]*model.LoanApplication, error) {
	return r.queryApplications(`SELECT `+applicationColumns+` FROM loan_application a
		JOIN financial_product fp ON fp.fp_id = a.product_id
		JOIN user u ON u.user_id = a.user_id
		WHERE a.user_id = ?
		ORDER BY a.apply_time DESC`, userID)
}

// ListApplicationsByStatus 按状态查询贷款申请
func (r *loanRepository) ListApplicationsByStatus(status int) ([]*model.LoanApplication, error) {
	return r.queryApplications(`SELECT `+applicationColumns+` FROM loan_application a
		JOIN financial_product fp ON fp.fp_id = a.product_id
		JOIN user u ON u.user_id = a.user_id
		WHERE a.status = ?
		ORDER BY a.apply_time`, status)
}

// ListAllApplications 分页查询全部贷款申请
func (r *loanRepository) ListAllApplications(page, pageSize int) ([]*model.LoanApplication, error) {
	return r.queryApplications(`SELECT `+applicationColumns+` FROM loan_application a
		JOIN financial_product fp ON fp.fp_id = a.product_id
		JOIN user u ON u.user_id = a.user_id
		ORDER BY a.apply_time DESC LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
}

// ListPlansByApplication 查询某申请的还款计划，按到期日排序
func (r *loanRepository) ListPlansByApplication(applicationID int) ([]*model.RepaymentPlan, error) {
	query := `SELECT plan_id, application_id, due_date, remaining_amount, status
              FROM repayment_plan WHERE application_id = ? ORDER BY due_date`
	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*model.RepaymentPlan
	for rows.Next() {
		var plan model.RepaymentPlan
		if err := rows.Scan(&plan.ID, &plan.ApplicationID, &plan.DueDate,
			&plan.RemainingAmount, &plan.Status); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// ListRecordsByApplication 查询某申请的还款记录
func (r *loanRepository) ListRecordsByApplication(applicationID int) ([]*model.RepaymentRecord, error) {
	query := `SELECT record_id, application_id, user_id, amount, repay_time, status
              FROM repayment_record WHERE application_id = ? ORDER BY repay_time DESC`
	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.RepaymentRecord
	for rows.Next() {
		var record model.RepaymentRecord
		if err := rows.Scan(&record.ID, &record.ApplicationID, &record.UserID, &record.Amount, &record.RepayTime, &record.Status); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// ListApprovalsByApplication 查询某申请的审批记录
func (r *loanRepository) ListApprovalsByApplication(applicationID int) ([]*model.ApprovalRecord, error) {
	query := `SELECT approval_id, application_id, approver_id, decision, opinion, approval_time
              FROM approval_record WHERE application_id = ? ORDER BY approval_time DESC`
	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*model.ApprovalRecord
	for rows.Next() {
		var ar model.ApprovalRecord
		if err := rows.Scan(&ar.ID, &ar.ApplicationID, &ar.ApproverID,
			&ar.Decision, &ar.Opinion, &ar.ApprovalTime); err != nil {
			return nil, err
		}
		approvals = append(approvals, &ar)
	}
	return approvals, rows.Err()
}

// CreateFinancialProduct 创建金融产品
func (r *loanRepository) CreateFinancialProduct(fp *model.FinancialProduct) error {
	query := `INSERT INTO financial_product (fp_name, fp_description, annual_rate, tags, fp_manager_id, max_amount, min_amount, term)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, fp.FpName, fp.FpDescription, fp.AnnualRate, fp.Tags,
		fp.FpManagerID, fp.MaxAmount, fp.MinAmount, fp.Term)
	if err != nil {
		log.Printf("创建金融产品失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	fp.ID = int(id)
	return nil
}

// FindFinancialProductByID 通过ID查找金融产品
func (r *loanRepository) FindFinancialProductByID(id int) (*model.FinancialProduct, error) {
	query := `SELECT fp.fp_id, fp.fp_name, fp.fp_description, fp.annual_rate, fp.tags,
                     fp.fp_manager_id, u.real_name, fp.max_amount, fp.min_amount, fp.term
              FROM financial_product fp
              JOIN user u ON u.user_id = fp.fp_manager_id
              WHERE fp.fp_id = ?`
	var fp model.FinancialProduct
	err := r.db.QueryRow(query, id).Scan(
		&fp.ID, &fp.FpName, &fp.FpDescription, &fp.AnnualRate, &fp.Tags,
		&fp.FpManagerID, &fp.FpManagerName, &fp.MaxAmount, &fp.MinAmount, &fp.Term,
	)
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

// ListFinancialProducts 查询全部金融产品
func (r *loanRepository) ListFinancialProducts() ([]*model.FinancialProduct, error) {
	query := `SELECT fp.fp_id, fp.fp_name, fp.fp_description, fp.annual_rate, fp.tags,
                     fp.fp_manager_id, u.real_name, fp.max_amount, fp.min_amount, fp.term
              FROM financial_product fp
              JOIN user u ON u.user_id = fp.fp_manager_id
              ORDER BY fp.fp_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.FinancialProduct
	for rows.Next() {
		var fp model.FinancialProduct
		if err := rows.Scan(
			&fp.ID, &fp.FpName, &fp.FpDescription, &fp.AnnualRate, &fp.Tags,
			&fp.FpManagerID, &fp.FpManagerName, &fp.MaxAmount, &fp.MinAmount, &fp.Term,
		); err != nil {
			return nil, err
		}
		products = append(products, &fp)
	}
	return products, rows.Err()
}

// UpdateFinancialProduct 更新金融产品
func (r *loanRepository) UpdateFinancialProduct(fp *model.FinancialProduct) error {
	_, err := r.db.Exec(`
		UPDATE financial_product
		SET fp_name = ?, fp_description = ?, annual_rate = ?, tags = ?, max_amount = ?, min_amount = ?, term = ?
		WHERE fp_id = ?`,
		fp.FpName, fp.FpDescription, fp.AnnualRate, fp.Tags, fp.MaxAmount, fp.MinAmount, fp.Term, fp.ID)
	return err
}

// DeleteFinancialProduct 删除金融产品
func (r *loanRepository) DeleteFinancialProduct(id int) error {
	_, err := r.db.Exec(`DELETE FROM financial_product WHERE fp_id = ?`, id)
	return err
}

// ListLoanStatuses 查询贷款状态字典
func (r *loanRepository) ListLoanStatuses() ([]*model.LoanStatus, error) {
	rows, err := r.db.Query(`SELECT status_id, status_code, status_name, description FROM loan_status ORDER BY status_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*model.LoanStatus
	for rows.Next() {
		var s model.LoanStatus
		if err := rows.Scan(&s.ID, &s.StatusCode, &s.StatusName, &s.Description); err != nil {
			return nil, err
		}
		statuses = append(statuses, &s)
	}
	return statuses, rows.Err()
}

// CreateLoanStatus 新增贷款状态字典项
func (r *loanRepository) CreateLoanStatus(ls *model.LoanStatus) error {
	result, err := r.db.Exec(`INSERT INTO loan_status (status_code, status_name, description) VALUES (?, ?, ?)`,
		ls.StatusCode, ls.StatusName, ls.Description)
	if err != nil {
		log.Printf("新增贷款状态失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ls.ID = int(id)
	return nil
}

// UpdateLoanStatus 更新贷款状态字典项
func (r *loanRepository) UpdateLoanStatus(ls *model.LoanStatus) error {
	_, err := r.db.Exec(`UPDATE loan_status SET status_code = ?, status_name = ?, description = ? WHERE status_id = ?`,
		ls.StatusCode, ls.StatusName, ls.Description, ls.ID)
	return err
}

// DeleteLoanStatus 删除贷款状态字典项
func (r *loanRepository) DeleteLoanStatus(id int) error {
	_, err := r.db.Exec(`DELETE FROM loan_status WHERE status_id = ?`, id)
	return err
}
