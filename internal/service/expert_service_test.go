package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newExpertServiceForTest() (*ExpertService, *MockExpertRepository, *MockUserRepository) {
	expertRepo := new(MockExpertRepository)
	userRepo := new(MockUserRepository)
	return NewExpertService(expertRepo, userRepo), expertRepo, userRepo
}

// TestBookConflict 测试同一专家同一天时段重叠的预约被拒绝
func TestBookConflict(t *testing.T) {
	svc, expertRepo, userRepo := newExpertServiceForTest()

	userRepo.On("FindByID", 3).Return(&model.User{ID: 3, RoleType: model.RoleExpert}, nil)
	expertRepo.On("ListByExpertAndDate", 3, "2026-10-01").Return([]*model.ExpertAppointment{
		{ID: 1, StartTime: "09:00", EndTime: "10:00", Status: model.AppointmentStatusApproved},
	}, nil)

	err := svc.Book(&model.ExpertAppointment{
		ExpertID: 3, UserID: 7, Date: "2026-10-01",
		StartTime: "09:30", EndTime: "10:30", Topic: "果树病虫害",
	})
	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrAppointmentConflict, appErr.Code)
}

// TestBookAdjacentSlots 测试首尾相接的时段不算冲突
func TestBookAdjacentSlots(t *testing.T) {
	svc, expertRepo, userRepo := newExpertServiceForTest()

	userRepo.On("FindByID", 3).Return(&model.User{ID: 3, RoleType: model.RoleExpert}, nil)
	expertRepo.On("ListByExpertAndDate", 3, "2026-10-01").Return([]*model.ExpertAppointment{
		{ID: 1, StartTime: "09:00", EndTime: "10:00", Status: model.AppointmentStatusApproved},
	}, nil)
	expertRepo.On("Create", mock.AnythingOfType("*model.ExpertAppointment")).Return(nil)

	appointment := &model.ExpertAppointment{
		ExpertID: 3, UserID: 7, Date: "2026-10-01",
		StartTime: "10:00", EndTime: "11:00", Topic: "灌溉咨询",
	}
	err := svc.Book(appointment)
	assert.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
}

// TestBookIgnoresRejected 测试已拒绝和已取消的预约不参与冲突检查
func TestBookIgnoresRejected(t *testing.T) {
	svc, expertRepo, userRepo := newExpertServiceForTest()

	userRepo.On("FindByID", 3).Return(&model.User{ID: 3, RoleType: model.RoleExpert}, nil)
	expertRepo.On("ListByExpertAndDate", 3, "2026-10-01").Return([]*model.ExpertAppointment{
		{ID: 1, StartTime: "09:00", EndTime: "10:00", Status: model.AppointmentStatusRejected},
		{ID: 2, StartTime: "09:00", EndTime: "10:00", Status: model.AppointmentStatusCancelled},
	}, nil)
	expertRepo.On("Create", mock.AnythingOfType("*model.ExpertAppointment")).Return(nil)

	err := svc.Book(&model.ExpertAppointment{
		ExpertID: 3, UserID: 7, Date: "2026-10-01",
		StartTime: "09:30", EndTime: "10:30", Topic: "大棚种植",
	})
	assert.NoError(t, err)
}

// TestBookNonExpert 测试不能预约非专家用户
func TestBookNonExpert(t *testing.T) {
	svc, _, userRepo := newExpertServiceForTest()

	userRepo.On("FindByID", 3).Return(&model.User{ID: 3, RoleType: model.RoleBuyer}, nil)

	err := svc.Book(&model.ExpertAppointment{
		ExpertID: 3, UserID: 7, Date: "2026-10-01",
		StartTime: "09:00", EndTime: "10:00", Topic: "咨询",
	})
	assert.Error(t, err)
}

// TestBookInvalidRange 测试结束时间必须晚于开始时间
func TestBookInvalidRange(t *testing.T) {
	svc, _, _ := newExpertServiceForTest()

	err := svc.Book(&model.ExpertAppointment{
		ExpertID: 3, UserID: 7, Date: "2026-10-01",
		StartTime: "10:00", EndTime: "09:00", Topic: "咨询",
	})
	assert.Error(t, err)
}

// TestUpdateStatusTransitions 测试预约状态流转的权限与前置状态
func TestUpdateStatusTransitions(t *testing.T) {
	svc, expertRepo, _ := newExpertServiceForTest()

	// 专家通过待审预约
	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusPending,
	}, nil).Once()
	expertRepo.On("UpdateStatus", int64(1), model.AppointmentStatusApproved).Return(nil).Once()
	assert.NoError(t, svc.UpdateStatus(3, 1, model.AppointmentStatusApproved))

	// 用户不能替专家审批
	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusPending,
	}, nil).Once()
	assert.Error(t, svc.UpdateStatus(7, 1, model.AppointmentStatusApproved))

	// 已处理的预约不能再审批
	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusApproved,
	}, nil).Once()
	assert.Error(t, svc.UpdateStatus(3, 1, model.AppointmentStatusApproved))

	// 用户取消自己的预约
	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusApproved,
	}, nil).Once()
	expertRepo.On("UpdateStatus", int64(1), model.AppointmentStatusCancelled).Return(nil).Once()
	assert.NoError(t, svc.UpdateStatus(7, 1, model.AppointmentStatusCancelled))
}

// TestReviewRequiresCompleted 测试只能评价已完成的预约
func TestReviewRequiresCompleted(t *testing.T) {
	svc, expertRepo, _ := newExpertServiceForTest()

	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusApproved,
	}, nil).Once()
	assert.Error(t, svc.Review(7, 1, "非常专业", ""))

	expertRepo.On("FindByID", int64(1)).Return(&model.ExpertAppointment{
		ID: 1, ExpertID: 3, UserID: 7, Status: model.AppointmentStatusCompleted,
	}, nil).Once()
	expertRepo.On("UpdateReview", int64(1), "非常专业", "").Return(nil).Once()
	assert.NoError(t, svc.Review(7, 1, "非常专业", ""))
}
