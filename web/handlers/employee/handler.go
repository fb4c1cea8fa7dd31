package employee

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/web/common"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	r.GET("/employee", endpoint.Get)
}

// Get returns the caller's own profile.
func (ep *Endpoint) Get(c *gin.Context) {
	identity, ok := common.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
		return
	}

	var emp *core.Employee
	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		emp, err = core.FindEmployeeByEmail(db, identity.Email)
		return err
	}); err != nil {
		log.Printf("[ERROR] failed to fetch employee %s: %v", identity.Email, err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Error fetching employee data"))
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(emp))
}
