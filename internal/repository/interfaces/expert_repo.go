package interfaces

import "agrimarket-backend/internal/model"

// ExpertRepository 接口定义了专家预约仓库应该实现的方法
type ExpertRepository interface {
	Create(appointment *model.ExpertAppointment) error
	FindByID(id int64) (*model.ExpertAppointment, error)
	ListByExpert(expertID int) ([]*model.ExpertAppointment, error)
	ListByUser(userID int) ([]*model.ExpertAppointment, error)
	ListByExpertAndDate(expertID int, date string) ([]*model.ExpertAppointment, error)
	UpdateStatus(id int64, status string) error
	UpdateReview(id int64, comment, report string) error
}
