package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

type marksService interface {
	List(ctx context.Context, filter models.MarksFilter) ([]models.MarksDetail, *models.Pagination, error)
	Add(ctx context.Context, req models.CreateMarksRequest) (*models.Marks, error)
	Update(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Marks, error)
	Delete(ctx context.Context, id string) error
}

// MarksHandler exposes admin marks endpoints.
type MarksHandler struct {
	marks marksService
}

// NewMarksHandler constructs MarksHandler.
func NewMarksHandler(marks marksService) *MarksHandler {
	return &MarksHandler{marks: marks}
}

// List godoc
// @Summary List marks entries
// @Tags Marks
// @Produce json
// @Param subject query string false "Subject"
// @Param examType query string false "Exam type"
// @Param batch query string false "Batch"
// @Param semester query int false "Semester"
// @Param section query string false "Section"
// @Param studentId query string false "Student ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/marks [get]
func (h *MarksHandler) List(c *gin.Context) {
	filter := models.MarksFilter{
		Subject:   c.Query("subject"),
		ExamType:  c.Query("examType"),
		Batch:     c.Query("batch"),
		Semester:  c.Query("semester"),
		Section:   c.Query("section"),
		StudentID: c.Query("studentId"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	items, pagination, err := h.marks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, response.Payload{"items": items}, pagination)
}

// Add godoc
// @Summary Record marks
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body models.CreateMarksRequest true "Marks payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Failure
// @Router /admin/marks [post]
func (h *MarksHandler) Add(c *gin.Context) {
	var req models.CreateMarksRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.marks.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, response.Payload{"message": "Marks added", "marks": entry}, nil)
}

// Update godoc
// @Summary Update marks
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Marks ID"
// @Param payload body models.UpdateMarksRequest true "Marks payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Failure
// @Router /admin/marks/{id} [put]
func (h *MarksHandler) Update(c *gin.Context) {
	var req models.UpdateMarksRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.marks.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Marks updated", response.Payload{"marks": entry})
}

// Delete godoc
// @Summary Delete marks
// @Tags Marks
// @Produce json
// @Param id path string true "Marks ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Failure
// @Router /admin/marks/{id} [delete]
func (h *MarksHandler) Delete(c *gin.Context) {
	if err := h.marks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Marks deleted")
}
