package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/infrastructure/mail"
	"hrmplatform.com/hrm/security"
	"hrmplatform.com/hrm/web/common"
)

type SignupDTO struct {
	FullName      string           `json:"fullname" binding:"required,max=255"`
	Email         string           `json:"email" binding:"required,email,max=255"`
	Company       string           `json:"company" binding:"required,max=255"`
	DateOfBirth   *common.DateOnly `json:"dateofbirth" binding:"required"`
	Country       string           `json:"country" binding:"required,max=255"`
	AboutYourself string           `json:"aboutyourself" binding:"required"`
}

// Signup registers an employee with a generated password and mails it to them.
func (ep *Endpoint) Signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if dto.DateOfBirth.Ptr() == nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Field 'dateofbirth' is required"))
		return
	}

	password, err := security.GenerateRandomPassword()
	if err != nil {
		log.Printf("[ERROR] failed to generate password: %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Error during signup"))
		return
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		log.Printf("[ERROR] failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Error during signup"))
		return
	}

	emp := core.Employee{
		FullName:      dto.FullName,
		WorkEmail:     dto.Email,
		Company:       dto.Company,
		DateOfBirth:   dto.DateOfBirth.Ptr(),
		Country:       dto.Country,
		AboutYourself: dto.AboutYourself,
		Password:      hash,
	}

	ctx := c.Request.Context()
	err = ep.base.Dm.Exec(ctx, func(db *gorm.DB) error {
		return core.CreateEmployee(db, &emp)
	})
	if errors.Is(err, core.ErrEmployeeExists) {
		c.JSON(http.StatusConflict, common.NewErrorResponse("Employee with this email already exists"))
		return
	}
	if err != nil {
		log.Printf("[ERROR] signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Error during signup"))
		return
	}

	if err := ep.base.Mailer.Send(ctx, mail.WelcomeEmail(ep.base.MailFrom, emp.FullName, emp.WorkEmail, password)); err != nil {
		log.Printf("[ERROR] failed to send welcome email to %s: %v", emp.WorkEmail, err)
		ep.base.Alert("welcome email failed for " + emp.WorkEmail + ": " + err.Error())
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Signup successful, but email sending failed"))
		return
	}

	log.Printf("[INFO] employee %d signed up: %s", emp.EmployeeID, emp.WorkEmail)
	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{
		"message": "Signup successful, email sent!",
		"id":      emp.EmployeeID,
	}))
}
