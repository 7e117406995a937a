package dto

// ===========================================================================
// Response Envelope
// Every endpoint wraps its payload in the same envelope so clients can
// branch on "success" uniformly.
// ===========================================================================

// Response standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo error payload
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// SuccessResponse builds a success envelope.
func SuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// SuccessWithMeta builds a success envelope with pagination meta.
func SuccessWithMeta(data interface{}, total int64, page, limit int) Response {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}

// ErrorResponse builds an error envelope.
func ErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// ===========================================================================
// Pagination
// ===========================================================================

// Pagination common list-query parameters
type Pagination struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// Offset converts page/limit into a row offset.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize()
}

// PageSize returns the effective page size with defaults applied.
func (p Pagination) PageSize() int {
	if p.Limit < 1 {
		return 20
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}

// PageNumber returns the effective page number with defaults applied.
func (p Pagination) PageNumber() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}
