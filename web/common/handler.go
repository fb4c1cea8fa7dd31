package common

import (
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"hrmplatform.com/hrm/attendance"
	"hrmplatform.com/hrm/core"
	"hrmplatform.com/hrm/infrastructure/communication"
	"hrmplatform.com/hrm/infrastructure/mail"
	"hrmplatform.com/hrm/security"
)

const IdentityKey = "identity"

// Publisher pushes a freshly logged attendance record to its owner's live sessions.
type Publisher interface {
	Publish(email string, rec attendance.Record)
}

// Handler carries what every endpoint needs. It is built once in main and
// shared by all endpoints.
type Handler struct {
	Dm       *core.DatabaseManager
	Mailer   mail.Mailer
	Alerter  communication.Alerter
	Feed     Publisher
	MailFrom string

	Secret   []byte
	TokenTTL time.Duration

	// Clock returns the current time in the business time zone.
	Clock func() time.Time

	alerts sync.WaitGroup
}

func (h *Handler) Now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock()
}

// Alert raises message on the alert channel in the background so a slow
// Slack never holds up a response. Alert failures are only logged.
func (h *Handler) Alert(message string) {
	if h.Alerter == nil {
		return
	}
	h.alerts.Add(1)
	go func() {
		defer h.alerts.Done()
		if err := h.Alerter.Error(message); err != nil {
			log.Printf("[WARN] failed to raise alert: %v", err)
		}
	}()
}

// FlushAlerts waits for alerts still in flight.
func (h *Handler) FlushAlerts() {
	h.alerts.Wait()
}

// CurrentIdentity returns the identity the authentication middleware stored.
func CurrentIdentity(c *gin.Context) (*security.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*security.Identity)
	return identity, ok && identity != nil
}
