package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/repository/interfaces"
	"agrimarket-backend/internal/util"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ExpertService struct {
	expertRepo interfaces.ExpertRepository
	userRepo   interfaces.UserRepository
}

// NewExpertService 创建一个新的 ExpertService 实例
func NewExpertService(expertRepo interfaces.ExpertRepository, userRepo interfaces.UserRepository) *ExpertService {
	return &ExpertService{
		expertRepo: expertRepo,
		userRepo:   userRepo,
	}
}

// overlaps 判断两个半开时间段 [aStart, aEnd) 与 [bStart, bEnd) 是否重叠。
// 时间统一为HH:mm零填充格式，可以直接按字典序比较。
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// Book 预约专家。同一专家同一天的已有预约时段不能重叠。
func (s *ExpertService) Book(appointment *model.ExpertAppointment) error {
	if appointment.StartTime >= appointment.EndTime {
		return errors.New(errors.ErrValidation, "结束时间必须晚于开始时间")
	}

	expert, err := s.userRepo.FindByID(appointment.ExpertID)
	if err != nil {
		return errors.Wrap(errors.ErrUserNotFound, "专家不存在", err)
	}
	if expert.RoleType != model.RoleExpert {
		return errors.New(errors.ErrValidation, "预约对象不是专家")
	}

	existing, err := s.expertRepo.ListByExpertAndDate(appointment.ExpertID, appointment.Date)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.Status == model.AppointmentStatusRejected || other.Status == model.AppointmentStatusCancelled {
			continue
		}
		if overlaps(appointment.StartTime, appointment.EndTime, other.StartTime, other.EndTime) {
			return errors.New(errors.ErrAppointmentConflict, "该时段已被预约")
		}
	}

	appointment.Status = model.AppointmentStatusPending
	if err := s.expertRepo.Create(appointment); err != nil {
		return err
	}

	util.Logger.Info("预约创建成功",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int("expert_id", appointment.ExpertID),
		zap.String("date", appointment.Date))
	return nil
}

// UpdateStatus 更新预约状态。专家处理待审预约，完成后标记完成或爽约。
func (s *ExpertService) UpdateStatus(operatorID int, appointmentID int64, status string) error {
	appointment, err := s.expertRepo.FindByID(appointmentID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "预约不存在", err)
	}

	switch status {
	case model.AppointmentStatusApproved, model.AppointmentStatusRejected:
		if appointment.ExpertID != operatorID {
			return errors.New(errors.ErrForbidden, "只能处理自己的预约")
		}
		if appointment.Status != model.AppointmentStatusPending {
			return errors.New(errors.ErrOrderStateConflict, "该预约已处理")
		}
	case model.AppointmentStatusCompleted, model.AppointmentStatusNoShow:
		if appointment.ExpertID != operatorID {
			return errors.New(errors.ErrForbidden, "只能处理自己的预约")
		}
		if appointment.Status != model.AppointmentStatusApproved {
			return errors.New(errors.ErrOrderStateConflict, "只有已通过的预约可以标记结果")
		}
		if appointment.Date > time.Now().Format("2006-01-02") {
			return errors.New(errors.ErrOrderStateConflict, "预约日期未到，不能标记结果")
		}
	case model.AppointmentStatusCancelled:
		if appointment.UserID != operatorID {
			return errors.New(errors.ErrForbidden, "只能取消自己发起的预约")
		}
		if appointment.Status != model.AppointmentStatusPending && appointment.Status != model.AppointmentStatusApproved {
			return errors.New(errors.ErrOrderStateConflict, "当前状态不允许取消")
		}
	default:
		return errors.New(errors.ErrValidation, "无效的预约状态")
	}

	return s.expertRepo.UpdateStatus(appointmentID, status)
}

// Review 用户对已完成的预约填写评价，专家补充报告
func (s *ExpertService) Review(operatorID int, appointmentID int64, comment, report string) error {
	appointment, err := s.expertRepo.FindByID(appointmentID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "预约不存在", err)
	}
	if appointment.UserID != operatorID && appointment.ExpertID != operatorID {
		return errors.New(errors.ErrForbidden, "没有操作权限")
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return errors.New(errors.ErrOrderStateConflict, "只能评价已完成的预约")
	}
	if comment == "" {
		comment = appointment.Comment
	}
	if report == "" {
		report = appointment.Report
	}
	return s.expertRepo.UpdateReview(appointmentID, comment, report)
}

// GetAppointment 查询单个预约
func (s *ExpertService) GetAppointment(id int64) (*model.ExpertAppointment, error) {
	return s.expertRepo.FindByID(id)
}

// ListExpertSchedule 查询专家的预约安排
func (s *ExpertService) ListExpertSchedule(expertID int) ([]*model.ExpertAppointment, error) {
	return s.expertRepo.ListByExpert(expertID)
}

// ListUserAppointments 查询用户发起的预约
func (s *ExpertService) ListUserAppointments(userID int) ([]*model.ExpertAppointment, error) {
	return s.expertRepo.ListByUser(userID)
}

// ListExperts 查询专家名录，可按姓名或用户名搜索
func (s *ExpertService) ListExperts(keyword string) ([]*model.User, error) {
	experts, err := s.userRepo.FindExperts()
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return experts, nil
	}
	matched := make([]*model.User, 0, len(experts))
	for _, e := range experts {
		if strings.Contains(e.RealName, keyword) || strings.Contains(e.Username, keyword) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
