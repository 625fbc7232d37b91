// internals/features/attendance/record/controller/report_controller.go
package controller

import (
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	recModel "absenku_backend/internals/features/attendance/record/model"
	userModel "absenku_backend/internals/features/users/user/model"
	helper "absenku_backend/internals/helpers"
	"absenku_backend/internals/helpers/dbtime"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type userReportRow struct {
	UserEmail     string `json:"user_email"`
	UserName      string `json:"user_name"`
	ClassID       string `json:"class_id"`
	SeatNo        string `json:"seat_no"`
	DaysPresent   int    `json:"days_present"`
	WorkedMinutes int    `json:"worked_minutes"`
	OpenDays      int    `json:"open_days"` // masuk tanpa pulang di rentang ini
}

// rangeReport: agregasi worked-minutes per user di rentang tanggal inklusif.
func (ctl *ReportController) rangeReport(c *fiber.Ctx, fromDate, toDate string) error {
	var rows []recModel.TimeRecordModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("time_record_date >= ? AND time_record_date <= ?", fromDate, toDate).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}

	var users []userModel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}
	nameOf := make(map[string]userModel.UserModel, len(users))
	for _, u := range users {
		nameOf[u.UserEmail] = u
	}

	agg := map[string]*userReportRow{}
	for i := range rows {
		r := &rows[i]
		row := agg[r.TimeRecordUserEmail]
		if row == nil {
			u := nameOf[r.TimeRecordUserEmail]
			row = &userReportRow{
				UserEmail: r.TimeRecordUserEmail,
				UserName:  u.UserName,
				ClassID:   u.UserClassID,
				SeatNo:    u.UserSeatNo,
			}
			agg[r.TimeRecordUserEmail] = row
		}
		if r.TimeRecordCheckIn != nil {
			row.DaysPresent++
		}
		if r.IsPending() {
			row.OpenDays++
		}
		row.WorkedMinutes += r.WorkedMinutes()
	}

	report := make([]userReportRow, 0, len(agg))
	for _, row := range agg {
		report = append(report, *row)
	}
	sort.Slice(report, func(i, j int) bool {
		if report[i].WorkedMinutes != report[j].WorkedMinutes {
			return report[i].WorkedMinutes > report[j].WorkedMinutes
		}
		return report[i].UserEmail < report[j].UserEmail
	})

	return helper.Success(c, "OK", fiber.Map{
		"from":   fromDate,
		"to":     toDate,
		"report": report,
	})
}

// GET /reports/weekly?start=YYYY-MM-DD (default: Senin minggu ini)
func (ctl *ReportController) Weekly(c *fiber.Ctx) error {
	startStr := strings.TrimSpace(c.Query("start"))
	var start time.Time
	if startStr == "" {
		now := time.Now()
		// mundur ke Senin
		offset := (int(now.Weekday()) + 6) % 7
		start = now.AddDate(0, 0, -offset)
	} else {
		var err error
		start, err = dbtime.ParseDate(startStr)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "start harus YYYY-MM-DD")
		}
	}
	end := start.AddDate(0, 0, 6)
	return ctl.rangeReport(c, dbtime.LocalDateString(start), dbtime.LocalDateString(end))
}

// GET /reports/monthly?month=YYYY-MM (default: bulan berjalan)
func (ctl *ReportController) Monthly(c *fiber.Ctx) error {
	monthStr := strings.TrimSpace(c.Query("month"))
	var first time.Time
	if monthStr == "" {
		now := time.Now()
		first = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	} else {
		t, err := time.ParseInLocation("2006-01", monthStr, time.Local)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "month harus YYYY-MM")
		}
		first = t
	}
	last := first.AddDate(0, 1, -1)
	return ctl.rangeReport(c, dbtime.LocalDateString(first), dbtime.LocalDateString(last))
}
