package utils

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/errors"
)

func ParseUUID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ValidationError(fmt.Sprintf("Invalid %s: must be a UUID", name)).WithError(err)
	}

	return id, nil
}

func ParseInt64(r *http.Request, name string) (int64, error) {

	raw := r.PathValue(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.ValidationError(fmt.Sprintf("Invalid %s: must be a positive integer", name))
	}

	return id, nil
}

// Pagination pulls page/pageSize query params with the usual clamping.
func Pagination(r *http.Request) (int, int) {

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}
