package attendance

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/attendance"
	"hrmplatform.com/hrm/web/common"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	r.GET("/attendance", endpoint.List)
	r.GET("/attendance/pending", endpoint.Pending)
}

func (ep *Endpoint) List(c *gin.Context) {
	ep.search(c, attendance.FindRecordsByEmail)
}

// Pending lists late arrivals still awaiting acknowledgment.
func (ep *Endpoint) Pending(c *gin.Context) {
	ep.search(c, attendance.FindPendingRecords)
}

func (ep *Endpoint) search(c *gin.Context, find func(db *gorm.DB, email string) ([]attendance.Record, error)) {
	identity, ok := common.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
		return
	}

	var records []attendance.Record
	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		records, err = find(db, identity.Email)
		return err
	}); err != nil {
		log.Printf("[ERROR] %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Error fetching attendance records"))
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(records))
}
