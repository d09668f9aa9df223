package loan

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoanHandler 处理贷款相关的HTTP请求
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler 创建一个新的 LoanHandler 实例
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService}
}

// Apply 提交贷款申请
func (h *LoanHandler) Apply(c *gin.Context) {
	userID := c.GetInt("user_id")

	var applyData struct {
		ProductID int      `json:"product_id" binding:"required"`
		Amount    float64  `json:"amount" binding:"required"`
		Term      int      `json:"term" binding:"required"`
		Documents []string `json:"documents"`
	}
	if err := c.ShouldBindJSON(&applyData); err != nil {
		util.Logger.Warn("贷款申请失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	app, err := h.loanService.Apply(userID, applyData.ProductID, applyData.Amount,
		applyData.Term, applyData.Documents)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, app, "申请提交成功")
}

// Approve 银行审批贷款申请
func (h *LoanHandler) Approve(c *gin.Context) {
	approverID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的申请ID", err))
		return
	}

	var approveData struct {
		Decision *bool  `json:"decision" binding:"required"`
		Opinion  string `json:"opinion"`
	}
	if err := c.ShouldBindJSON(&approveData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.loanService.Approve(approverID, id, *approveData.Decision, approveData.Opinion); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "审批完成")
}

// Repay 还款
func (h *LoanHandler) Repay(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的申请ID", err))
		return
	}

	var repayData struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&repayData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	record, err := h.loanService.Repay(userID, id, repayData.Amount)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, record, "还款成功")
}

// GetApplication 查询申请详情，带还款计划与记录
func (h *LoanHandler) GetApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的申请ID", err))
		return
	}

	app, plans, records, err := h.loanService.GetApplication(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"application":       app,
		"repayment_plans":   plans,
		"repayment_records": records,
	}, "")
}

// ListMine 查询当前用户的贷款申请
func (h *LoanHandler) ListMine(c *gin.Context) {
	userID := c.GetInt("user_id")
	apps, err := h.loanService.ListUserApplications(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询贷款申请失败", err))
		return
	}
	errors.HandleSuccess(c, apps, "")
}

// ListPending 银行查询待审批申请
func (h *LoanHandler) ListPending(c *gin.Context) {
	apps, err := h.loanService.ListPendingApplications()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询贷款申请失败", err))
		return
	}
	errors.HandleSuccess(c, apps, "")
}

// ListAll 银行分页查询全部申请
func (h *LoanHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	apps, err := h.loanService.ListAllApplications(page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询贷款申请失败", err))
		return
	}
	errors.HandleSuccess(c, apps, "")
}

// ListApprovals 查询申请的审批记录
func (h *LoanHandler) ListApprovals(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的申请ID", err))
		return
	}
	approvals, err := h.loanService.ListApprovals(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询审批记录失败", err))
		return
	}
	errors.HandleSuccess(c, approvals, "")
}

// UploadDocument 上传贷款申请材料
func (h *LoanHandler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("document")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "未找到上传文件", err))
		return
	}

	url, err := h.loanService.UploadDocument(file)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"document_url": url}, "上传成功")
}

// ListStatuses 查询贷款状态字典
func (h *LoanHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.loanService.ListLoanStatuses()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询状态字典失败", err))
		return
	}
	errors.HandleSuccess(c, statuses, "")
}

// CreateStatus 新增贷款状态字典项
func (h *LoanHandler) CreateStatus(c *gin.Context) {
	var statusData struct {
		StatusCode  int    `json:"status_code" binding:"required"`
		StatusName  string `json:"status_name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&statusData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	ls := &model.LoanStatus{
		StatusCode:  statusData.StatusCode,
		StatusName:  statusData.StatusName,
		Description: statusData.Description,
	}
	if err := h.loanService.CreateLoanStatus(ls); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, ls, "创建成功")
}

// UpdateStatus 更新贷款状态字典项
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的状态ID", err))
		return
	}

	var statusData struct {
		StatusCode  int    `json:"status_code" binding:"required"`
		StatusName  string `json:"status_name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&statusData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	ls := &model.LoanStatus{
		ID:          id,
		StatusCode:  statusData.StatusCode,
		StatusName:  statusData.StatusName,
		Description: statusData.Description,
	}
	if err := h.loanService.UpdateLoanStatus(ls); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, ls, "更新成功")
}

// DeleteStatus 删除贷款状态字典项
func (h *LoanHandler) DeleteStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的状态ID", err))
		return
	}
	if err := h.loanService.DeleteLoanStatus(id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
