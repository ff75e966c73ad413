package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

type attendanceService interface {
	Upsert(ctx context.Context, req models.UpsertAttendanceRequest) (*models.Attendance, error)
	List(ctx context.Context) ([]models.AttendanceDetail, error)
	Summary(ctx context.Context) (*models.AttendanceOverview, error)
	Distribution(ctx context.Context) ([]models.AttendanceShare, error)
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Upsert godoc
// @Summary Save a student's attendance counters
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.UpsertAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Failure
// @Router /attendance [post]
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	var req models.UpsertAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.attendance.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Payload{"message": "Attendance saved", "attendance": record}, nil)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.attendance.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Payload{"attendance": records})
}

// Summary godoc
// @Summary Mean attendance percentage
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.attendance.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Payload{"records": summary.Records, "avgAttendance": summary.AvgAttendance})
}

// Distribution godoc
// @Summary Attendance percentage per student
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/distribution [get]
func (h *AttendanceHandler) Distribution(c *gin.Context) {
	shares, err := h.attendance.Distribution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Payload{"distribution": shares})
}
