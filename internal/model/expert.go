package model

// 专家预约状态
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusApproved  = "approved"
	AppointmentStatusRejected  = "rejected"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusNoShow    = "no_show"
	AppointmentStatusCancelled = "cancelled"
)

// ExpertAppointment 专家预约模型，日期为YYYY-MM-DD，时间为HH:mm
type ExpertAppointment struct {
	ID        int64  `json:"appointment_id"`
	ExpertID  int    `json:"expert_id"`
	UserID    int    `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Topic     string `json:"topic"`
	Remark    string `json:"remark"`
	Status    string `json:"status"`
	Comment   string `json:"comment,omitempty"`
	Report    string `json:"report,omitempty"`
	Username  string `json:"username,omitempty"`
	Expert    string `json:"expert_name,omitempty"`
}
