package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// SendJSONResponse отправляет успешный ответ в формате JSON.
func SendJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println(err)
	}
}

// ParsePageLimit обрабатывает параметры пагинации page и limit.
// Отсутствующие параметры получают значения по умолчанию,
// нечисловые и неположительные значения считаются ошибкой.
func ParsePageLimit(pageStr, limitStr string) (int, int, error) {
	page := 1
	limit := 10
	var err error

	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			return 0, 0, fmt.Errorf("invalid page parameter, must be a positive integer")
		}
	}

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [1:100]")
		}
	}

	return page, limit, nil
}

// ParseDateRange обрабатывает параметры startDate и endDate.
// Диапазон применяется только когда заданы обе границы.
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, nil
	}

	start, err := parseQueryDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate parameter: %s", startStr)
	}
	end, err := parseQueryDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate parameter: %s", endStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate must not be before startDate")
	}
	return start, end, nil
}

func parseQueryDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
