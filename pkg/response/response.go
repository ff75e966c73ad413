package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
)

// Payload holds the resource keys merged into a success envelope.
type Payload map[string]interface{}

// Envelope is the common response contract: a success flag, the payload keys
// at the top level, and optional pagination and meta blocks.
type Envelope map[string]interface{}

// Failure is the body returned for every error.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, payload Payload, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{"success": true}
	for key, value := range payload {
		if key == "success" {
			continue
		}
		envelope[key] = value
	}
	if pagination != nil {
		envelope["page"] = pagination.Page
		envelope["pages"] = pagination.Pages
		envelope["total"] = pagination.Total
	}
	if len(meta) > 0 && len(meta[0]) > 0 {
		envelope["meta"] = meta[0]
	}
	c.JSON(status, envelope)
}

// OK responds with HTTP 200 and the payload.
func OK(c *gin.Context, payload Payload) {
	JSON(c, http.StatusOK, payload, nil)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload Payload) {
	JSON(c, http.StatusCreated, payload, nil)
}

// Message responds with HTTP 200 and a human readable confirmation.
func Message(c *gin.Context, message string, payload ...Payload) {
	body := Payload{"message": message}
	if len(payload) > 0 {
		for key, value := range payload[0] {
			body[key] = value
		}
	}
	JSON(c, http.StatusOK, body, nil)
}

// Error sends a failure response converting the error to the common
// structure. Wrapped causes are never serialised.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Failure{Success: false, Message: appErr.Message, Code: appErr.Code})
}

// Abort writes the failure response and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
