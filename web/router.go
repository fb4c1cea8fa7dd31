package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrmplatform.com/hrm/web/common"
	"hrmplatform.com/hrm/web/handlers/attendance"
	"hrmplatform.com/hrm/web/handlers/auth"
	"hrmplatform.com/hrm/web/handlers/calendar"
	"hrmplatform.com/hrm/web/handlers/employee"
	"hrmplatform.com/hrm/web/live"
	"hrmplatform.com/hrm/web/middlewares"
)

// NewRouter wires every endpoint. feed may be nil, which leaves out /attendance/live.
func NewRouter(h *common.Handler, feed *live.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middlewares.RequestID())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("")
	auth.Register(public, h)
	if feed != nil {
		public.GET("/attendance/live", feed.Handler(h.Secret))
	}

	protected := r.Group("")
	protected.Use(middlewares.Authentication(h.Secret))
	{
		employee.Register(protected, h)
		attendance.Register(protected, h)
		calendar.Register(protected, h)
	}

	return r
}
