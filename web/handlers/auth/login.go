package auth

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/attendance"
	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/infrastructure/mail"
	"hrmplatform.com/hrm/security"
	"hrmplatform.com/hrm/utils"
	"hrmplatform.com/hrm/web/common"
)

const (
	WarningAttendanceNotRecorded = "attendance could not be recorded"
	WarningLoginEmailNotSent     = "login notification email could not be sent"
)

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Company  string `json:"company"`
}

type AttendanceDTO struct {
	LogDate        string `json:"logDate"`
	LogTime        string `json:"logTime"`
	ArrivalStatus  string `json:"arrivalStatus"`
	MinutesLate    int    `json:"minutesLate"`
	LeaveStatus    string `json:"leaveStatus"`
	EffectiveHours string `json:"effectiveHours"`
	GrossHours     string `json:"grossHours"`
	LogStatusCode  string `json:"logStatusCode"`
	Summary        string `json:"summary"`
}

type LoginResponse struct {
	Message    string        `json:"message"`
	Token      string        `json:"token"`
	User       UserDTO       `json:"user"`
	Attendance AttendanceDTO `json:"attendance"`
	Warnings   []string      `json:"warnings"`
}

// Login verifies credentials, records attendance for the login instant and
// issues a session token. Recording attendance and the notice email are best-effort.
func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	ctx := c.Request.Context()
	var emp *core.Employee
	err := ep.base.Dm.Exec(ctx, func(db *gorm.DB) error {
		var err error
		emp, err = core.FindEmployeeByEmail(db, dto.Email)
		return err
	})
	if err != nil {
		log.Printf("[ERROR] login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Internal server error"))
		return
	}
	if emp == nil || !security.CheckPassword(emp.Password, dto.Password) {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid email or password"))
		return
	}

	now := ep.base.Now()
	outcome := attendance.Classify(now)
	record := outcome.Record(emp.WorkEmail, now)
	warnings := []string{}

	err = ep.base.Dm.Exec(ctx, func(db *gorm.DB) error {
		return attendance.AppendRecord(db, &record)
	})
	if err != nil {
		log.Printf("[WARN] attendance not recorded for %s at %s: %v", emp.WorkEmail, now.Format("2006-01-02 15:04:05"), err)
		ep.base.Alert(fmt.Sprintf("attendance not recorded for %s: %v", emp.WorkEmail, err))
		warnings = append(warnings, WarningAttendanceNotRecorded)
	} else if ep.base.Feed != nil {
		ep.base.Feed.Publish(emp.WorkEmail, record)
	}

	token, err := security.CreateIdentityToken(&security.Identity{
		EmployeeID: emp.EmployeeID,
		FullName:   emp.FullName,
		Email:      emp.WorkEmail,
	}, ep.base.Secret, ep.base.TokenTTL)
	if err != nil {
		log.Printf("[ERROR] failed to issue token for %s: %v", emp.WorkEmail, err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Internal server error"))
		return
	}

	if err := ep.base.Mailer.Send(ctx, mail.LoginNoticeEmail(ep.base.MailFrom, emp.WorkEmail)); err != nil {
		log.Printf("[WARN] failed to send login notice to %s: %v", emp.WorkEmail, err)
		warnings = append(warnings, WarningLoginEmailNotSent)
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(LoginResponse{
		Message: "Login successful",
		Token:   token,
		User: UserDTO{
			ID:       emp.EmployeeID,
			FullName: emp.FullName,
			Email:    emp.WorkEmail,
			Company:  emp.Company,
		},
		Attendance: AttendanceDTO{
			LogDate:        record.LogDate,
			LogTime:        record.LogTime,
			ArrivalStatus:  record.ArrivalStatus,
			MinutesLate:    record.MinutesLate,
			LeaveStatus:    utils.YesNo(record.Leave),
			EffectiveHours: record.EffectiveHours,
			GrossHours:     record.GrossHours,
			LogStatusCode:  record.LogStatusCode,
			Summary:        outcome.Summary(),
		},
		Warnings: warnings,
	}))
}
