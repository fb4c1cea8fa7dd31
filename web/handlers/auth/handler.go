package auth

import (
	"github.com/gin-gonic/gin"

	"hrmplatform.com/hrm/web/common"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	r.POST("/signup", endpoint.Signup)
	r.POST("/login", endpoint.Login)
}
