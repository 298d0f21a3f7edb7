// Package tracking serves the email open pixel and click redirect.
// Both endpoints are unauthenticated and must never reveal whether a
// tracking ID exists.
package tracking

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/domain/tracking"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// transparentGIF is a 1x1 transparent GIF89a.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3B,
}

type TrackingHandler struct {
	trackings tracking.Repository
	logger    logger.Interface
}

func NewTrackingHandler(trackings tracking.Repository) *TrackingHandler {
	return &TrackingHandler{
		trackings: trackings,
		logger:    logger.NewLogger(),
	}
}

// Pixel handles GET /api/email-tracking/pixel/:id
// The :id param carries a ".gif" suffix. The pixel is always returned so
// mail clients cannot probe for valid IDs.
func (h *TrackingHandler) Pixel(c *gin.Context) {
	trackingID := strings.TrimSuffix(c.Param("id"), ".gif")
	ctx := c.Request.Context()

	if _, err := h.trackings.GetByID(ctx, trackingID); err != nil {
		h.logger.Warnw("open pixel hit for unknown tracking id", "tracking_id", trackingID)
	} else if event, err := tracking.NewEvent(trackingID, tracking.KindOpen, time.Now().UTC()); err == nil {
		event.WithRequest(c.ClientIP(), c.Request.UserAgent(), c.Request.Referer())
		if err := h.trackings.SaveEvent(ctx, event); err != nil {
			h.logger.Errorw("failed to record open event", "tracking_id", trackingID, "error", err)
		}
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "image/gif", transparentGIF)
}

// Click handles GET /api/email-tracking/click?tid=...&url=...
// Hits on unknown tracking IDs are recorded and redirected anyway.
func (h *TrackingHandler) Click(c *gin.Context) {
	trackingID := c.Query("tid")
	destination := c.Query("url")
	if destination == "" {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "url is required")
		return
	}

	if trackingID != "" {
		event, err := tracking.NewEvent(trackingID, tracking.KindClick, time.Now().UTC())
		if err == nil {
			event.WithURL(destination).WithRequest(c.ClientIP(), c.Request.UserAgent(), c.Request.Referer())
			if err := h.trackings.SaveEvent(c.Request.Context(), event); err != nil {
				h.logger.Errorw("failed to record click event", "tracking_id", trackingID, "error", err)
			}
		}
	}

	c.Redirect(http.StatusFound, destination)
}
