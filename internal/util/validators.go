package util

import (
	"time"

	"github.com/go-playground/validator/v10"
)

func isFutureDate(s string) bool {
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !date.Before(today)
}

// 时段按字典序比较，所以必须是零填充的HH:mm。
func isClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour < 24 && minute < 60
}

// ValidateFutureDate 验证日期（YYYY-MM-DD）是否不早于今天
func ValidateFutureDate(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return isFutureDate(s)
}

// ValidateClockTime 验证时间字符串是否为零填充的HH:mm格式
func ValidateClockTime(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return isClockTime(s)
}
