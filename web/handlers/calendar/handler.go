package calendar

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hrmplatform.com/hrm/calendar"
	"hrmplatform.com/hrm/utils"
	"hrmplatform.com/hrm/web/common"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, h *common.Handler) {
	endpoint := &Endpoint{base: h}
	r.GET("/calendar/events", endpoint.List)
	r.POST("/calendar/events", endpoint.Create)
	r.GET("/calendar/events/:id", endpoint.Get)
	r.PUT("/calendar/events/:id", endpoint.Update)
	r.DELETE("/calendar/events/:id", endpoint.Delete)
}

type EventCreateDTO struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location" binding:"max=255"`
	Attendees   []string  `json:"attendees" binding:"omitempty,dive,email"`
}

type EventUpdateDTO struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	AllDay      *bool      `json:"allDay,omitempty"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=255"`
	Attendees   *[]string  `json:"attendees,omitempty" binding:"omitempty,dive,email"`
}

type EventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location"`
	Attendees   []string  `json:"attendees"`
	Source      string    `json:"source"`
	Region      string    `json:"region,omitempty"`
}

func toEventDTO(e calendar.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		AllDay:      e.AllDay,
		Location:    e.Location,
		Attendees:   e.AttendeeList(),
		Source:      e.Source,
		Region:      e.Region,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calendar.ErrEventNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Event not found"))
	case errors.Is(err, calendar.ErrInvalidRange), errors.Is(err, calendar.ErrMissingTitle):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
	default:
		log.Printf("[ERROR] calendar: %v", err)
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("Internal server error"))
	}
}

// parseBound reads an optional query time. Times without an offset are business-zone wall time.
func (ep *Endpoint) parseBound(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseTimeIn(raw, ep.base.Now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid '"+name+"' time"))
		return time.Time{}, false
	}
	return t, true
}

// List returns the caller's events and holidays overlapping ?from= and ?to=.
func (ep *Endpoint) List(c *gin.Context) {
	identity, _ := common.CurrentIdentity(c)

	from, ok := ep.parseBound(c, "from")
	if !ok {
		return
	}
	to, ok := ep.parseBound(c, "to")
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(calendar.ErrInvalidRange.Error()))
		return
	}

	var events []calendar.Event
	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		events, err = calendar.ListEvents(db, identity.Email, from, to)
		return err
	}); err != nil {
		writeError(c, err)
		return
	}

	result := utils.Map(events, toEventDTO)
	c.JSON(http.StatusOK, common.NewSearchResponse(result))
}

func (ep *Endpoint) Get(c *gin.Context) {
	identity, _ := common.CurrentIdentity(c)

	var event *calendar.Event
	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		event, err = calendar.FindEvent(db, c.Param("id"), identity.Email)
		return err
	}); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toEventDTO(*event)))
}

func (ep *Endpoint) Create(c *gin.Context) {
	identity, _ := common.CurrentIdentity(c)

	var dto EventCreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	event := calendar.Event{
		OwnerEmail:  identity.Email,
		Title:       dto.Title,
		Description: dto.Description,
		StartsAt:    dto.StartsAt,
		EndsAt:      dto.EndsAt,
		AllDay:      dto.AllDay,
		Location:    dto.Location,
	}
	if err := event.SetAttendees(dto.Attendees); err != nil {
		writeError(c, err)
		return
	}

	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		return calendar.CreateEvent(db, &event)
	}); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(toEventDTO(event)))
}

func (ep *Endpoint) Update(c *gin.Context) {
	identity, _ := common.CurrentIdentity(c)

	var dto EventUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var event *calendar.Event
	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		event, err = calendar.UpdateEvent(db, c.Param("id"), identity.Email, calendar.EventUpdate{
			Title:       dto.Title,
			Description: dto.Description,
			StartsAt:    dto.StartsAt,
			EndsAt:      dto.EndsAt,
			AllDay:      dto.AllDay,
			Location:    dto.Location,
			Attendees:   dto.Attendees,
		})
		return err
	}); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toEventDTO(*event)))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	identity, _ := common.CurrentIdentity(c)

	if err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		return calendar.DeleteEvent(db, c.Param("id"), identity.Email)
	}); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
