package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

type profileService interface {
	Profile(ctx context.Context, userID string) (*models.StudentDetail, error)
	UpsertProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.StudentDetail, bool, error)
}

type ownMarksService interface {
	ListForUser(ctx context.Context, userID string) ([]models.MarksDetail, error)
}

// ProfileHandler serves the authenticated student's own data.
type ProfileHandler struct {
	profiles profileService
	marks    ownMarksService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles profileService, marks ownMarksService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, marks: marks}
}

// Me godoc
// @Summary Own student profile
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Failure
// @Router /student/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	student, err := h.profiles.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Payload{"student": student})
}

// Update godoc
// @Summary Create or update own profile
// @Tags Student
// @Accept json
// @Produce json
// @Param payload body models.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /student/update [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	student, created, err := h.profiles.UpsertProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Profile updated"
	if created {
		message = "Profile created"
	}
	response.Message(c, message, response.Payload{"student": student})
}

// MyMarks godoc
// @Summary Own marks, newest exam first
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Failure
// @Router /student/my-marks [get]
func (h *ProfileHandler) MyMarks(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	items, err := h.marks.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.Payload{"marks": items})
}
