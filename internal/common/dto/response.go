package dto

import "github.com/gin-gonic/gin"

// FieldError describes one violated field in a validation failure. All
// violations are returned in a single response, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes the page of a list response.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// NewPagination computes the page descriptor for a list result.
func NewPagination(current, limit int, total int64) *Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return &Pagination{Current: current, Pages: pages, Total: total, Limit: limit}
}

// Response is the envelope shared by every endpoint.
type Response struct {
	Success    bool         `json:"success"`
	Data       any          `json:"data,omitempty"`
	Message    string       `json:"message,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

// OK sends a success envelope with data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// OKMessage sends a success envelope with a message and optional data.
func OKMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// OKPaginated sends a success envelope with data and pagination.
func OKPaginated(c *gin.Context, status int, data any, p *Pagination) {
	c.JSON(status, Response{Success: true, Data: data, Pagination: p})
}

// Fail sends a failure envelope with a message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// FailValidation sends a failure envelope listing every violated field.
func FailValidation(c *gin.Context, status int, message string, errs []FieldError) {
	c.JSON(status, Response{Success: false, Message: message, Errors: errs})
}
