package model

import "time"

// 贷款申请状态
const (
	LoanStatusSubmitted = 1 // 已提交
	LoanStatusRejected  = 2 // 已拒绝
	LoanStatusApproved  = 3 // 已通过
	LoanStatusRepaying  = 4 // 还款中
	LoanStatusSettled   = 5 // 已结清
	LoanStatusOverdue   = 6 // 已逾期
)

// 还款计划状态
const (
	PlanStatusUnpaid  = "未还"
	PlanStatusPaid    = "已还款"
	PlanStatusOverdue = "已逾期"

	// 还款记录落库即视为已还
	RecordStatusPaid = "已还"
)

// FinancialProduct 金融产品模型
type FinancialProduct struct {
	ID            int     `json:"fp_id"`
	FpName        string  `json:"fp_name"`
	FpDescription string  `json:"fp_description"`
	AnnualRate    float64 `json:"annual_rate"`
	Tags          string  `json:"tags"`
	FpManagerID   int     `json:"fp_manager_id"`
	FpManagerName string  `json:"fp_manager_name,omitempty"`
	MaxAmount     float64 `json:"max_amount"`
	MinAmount     float64 `json:"min_amount"`
	Term          int     `json:"term"`
}

// LoanApplication 贷款申请模型
type LoanApplication struct {
	ID        int       `json:"application_id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Amount    float64   `json:"amount"`
	Term      int       `json:"term"`
	Documents string    `json:"documents"`
	Status    int       `json:"status"`
	ApplyTime time.Time `json:"apply_time"`
	FpName    string    `json:"fp_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	RealName  string    `json:"real_name,omitempty"`
}

// RepaymentPlan 还款计划模型
type RepaymentPlan struct {
	ID              int       `json:"plan_id"`
	ApplicationID   int       `json:"application_id"`
	DueDate         time.Time `json:"due_date"`
	RemainingAmount float64   `json:"remaining_amount"`
	Status          string    `json:"status"`
}

// RepaymentRecord 还款记录模型
type RepaymentRecord struct {
	ID            int       `json:"record_id"`
	ApplicationID int       `json:"application_id"`
	UserID        int       `json:"user_id"`
	Amount        float64   `json:"amount"`
	RepayTime     time.Time `json:"repay_time"`
	Status        string    `json:"status"`
}

// ApprovalRecord 审批记录模型
type ApprovalRecord struct {
	ID            int       `json:"approval_id"`
	ApplicationID int       `json:"application_id"`
	ApproverID    int       `json:"approver_id"`
	Decision      bool      `json:"decision"`
	Opinion       string    `json:"opinion"`
	ApprovalTime  time.Time `json:"approval_time"`
}

// LoanStatus 贷款状态字典
type LoanStatus struct {
	ID          int    `json:"status_id"`
	StatusCode  int    `json:"status_code"`
	StatusName  string `json:"status_name"`
	Description string `json:"description"`
}
