package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
)

// expertRepository 实现了 ExpertRepository 接口
type expertRepository struct {
	db *sql.DB
}

// NewExpertRepository 创建一个新的 expertRepository 实例
func NewExpertRepository(db *sql.DB) *expertRepository {
	return &expertRepository{db}
}

const appointmentColumns = `a.appointment_id, a.expert_id, a.user_id, a.date, a.start_time, a.end_time,
       a.topic, a.remark, a.status, a.comment, a.report, u.username, e.real_name`

func (r *expertRepository) queryAppointments(query string, args ...interface{}) ([]*model.ExpertAppointment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*model.ExpertAppointment
	for rows.Next() {
		var a model.ExpertAppointment
		if err := rows.Scan(
			&a.ID, &a.ExpertID, &a.UserID, &a.Date, &a.StartTime, &a.EndTime,
			&a.Topic, &a.Remark, &a.Status, &a.Comment, &a.Report, &a.Username, &a.Expert,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, &a)
	}
	return appointments, rows.Err()
}

// Create 创建预约
func (r *expertRepository) Create(appointment *model.ExpertAppointment) error {
	log.Printf("尝试创建专家预约：专家ID=%d 日期=%s", appointment.ExpertID, appointment.Date)
	query := `INSERT INTO expert_appointment (expert_id, user_id, date, start_time, end_time, topic, remark, status, comment, report)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', '')`
	result, err := r.db.Exec(query, appointment.ExpertID, appointment.UserID, appointment.Date,
		appointment.StartTime, appointment.EndTime, appointment.Topic, appointment.Remark, appointment.Status)
	if err != nil {
		log.Printf("创建专家预约失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	appointment.ID = id
	return nil
}

// FindByID 通过ID查找预约
func (r *expertRepository) FindByID(id int64) (*model.ExpertAppointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM expert_appointment a
              JOIN user u ON u.user_id = a.user_id
              JOIN user e ON e.user_id = a.expert_id
              WHERE a.appointment_id = ?`
	var a model.ExpertAppointment
	err := r.db.QueryRow(query, id).Scan(
		&a.ID, &a.ExpertID, &a.UserID, &a.Date, &a.StartTime, &a.EndTime,
		&a.Topic, &a.Remark, &a.Status, &a.Comment, &a.Report, &a.Username, &a.Expert,
	)
	if err != nil {
		log.Printf("查找专家预约失败：%v", err)
		return nil, err
	}
	return &a, nil
}

// ListByExpert 查询专家的全部预约
func (r *expertRepository) ListByExpert(expertID int) ([]*model.ExpertAppointment, error) {
	return r.queryAppointments(`SELECT `+appointmentColumns+` FROM expert_appointment a
		JOIN user u ON u.user_id = a.user_id
		JOIN user e ON e.user_id = a.expert_id
		WHERE a.expert_id = ?
		ORDER BY a.date DESC, a.start_time`, expertID)
}

// ListByUser 查询用户发起的全部预约
func (r *expertRepository) ListByUser(userID int) ([]*model.ExpertAppointment, error) {
	return r.queryAppointments(`SELECT `+appointmentColumns+` FROM expert_appointment a
		JOIN user u ON u.user_id = a.user_id
		JOIN user e ON e.user_id = a.expert_id
		WHERE a.user_id = ?
		ORDER BY a.date DESC, a.start_time`, userID)
}

// ListByExpertAndDate 查询专家某天的预约，用于时段冲突检查
func (r *expertRepository) ListByExpertAndDate(expertID int, date string) ([]*model.ExpertAppointment, error) {
	return r.queryAppointments(`SELECT `+appointmentColumns+` FROM expert_appointment a
		JOIN user u ON u.user_id = a.user_id
		JOIN user e ON e.user_id = a.expert_id
		WHERE a.expert_id = ? AND a.date = ?
		ORDER BY a.start_time`, expertID, date)
}

// UpdateStatus 更新预约状态
func (r *expertRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE expert_appointment SET status = ? WHERE appointment_id = ?`, status, id)
	if err != nil {
		log.Printf("更新预约状态失败：%v", err)
	}
	return err
}

// UpdateReview 填写预约评价与报告
func (r *expertRepository) UpdateReview(id int64, comment, report string) error {
	_, err := r.db.Exec(`UPDATE expert_appointment SET comment = ?, report = ? WHERE appointment_id = ?`,
		comment, report, id)
	return err
}
