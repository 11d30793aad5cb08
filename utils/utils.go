package utils

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"leadboard/store"
)

// ErrorResponse creates a standardized error response. Server-side failures
// are reported to Sentry with the request path attached.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	if status >= fiber.StatusInternalServerError && err != nil {
		logrus.WithFields(logrus.Fields{
			"status": status,
			"path":   c.Path(),
			"method": c.Method(),
		}).WithError(err).Error(message)

		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", c.Path())
			scope.SetTag("method", c.Method())
			sentry.CaptureException(err)
		})
	}

	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response.
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// ParseUint safely parses a string to uint, returning 0 on garbage.
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

// Pointer returns a pointer to the given value.
func Pointer[T any](v T) *T {
	return &v
}

// PaginationFromQuery reads the shared page/limit/sort query parameters.
// Values are normalized by the store layer; only the raw strings are read
// here.
func PaginationFromQuery(c *fiber.Ctx) store.Pagination {
	return store.Pagination{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
}

// InfinitePaginationFromQuery reads the infinite-scroll variant, where the
// cursor arrives as page_param and defaults to the first page.
func InfinitePaginationFromQuery(c *fiber.Ctx) store.Pagination {
	p := PaginationFromQuery(c)
	p.Page = c.QueryInt("page_param", 1)
	return p
}
