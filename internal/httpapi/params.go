package httpapi

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"employeeManagement/internal/apperr"
	"employeeManagement/repository"
)

const (
	maxPageSize    = 100 // Maximum allowed page size for list operations.
	nextPageHeader = "X-Next-Page-Token"
	cursorPrefix   = "e:"
)

// encodeCursor builds an opaque page token from the last id of a page.
func encodeCursor(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatInt(id, 10)))
}

// decodeCursor parses a page token produced by encodeCursor.
func decodeCursor(token string) (int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("base64: %w", err)
	}
	raw, ok := strings.CutPrefix(string(b), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("invalid cursor format")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid cursor id")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (*int64, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.Validation("Invalid " + name)
	}
	return &id, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	if !validDate(v) {
		return nil, apperr.Validation("Invalid " + name + ", use YYYY-MM-DD")
	}
	return &v, nil
}

func validDate(s string) bool {
	_, err := time.Parse(repository.DateLayout, s)
	return err == nil
}

// optional trims s and maps blank values to NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// optionalDate is optional plus date validation.
func optionalDate(s *string, field string) (*string, error) {
	v := optional(s)
	if v != nil && !validDate(*v) {
		return nil, apperr.Validation("Invalid " + field + ", use YYYY-MM-DD")
	}
	return v, nil
}
