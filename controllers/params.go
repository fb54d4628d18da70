package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gravitl/scimdir/filter"
	"github.com/gravitl/scimdir/models"
)

// pageFromQuery - startIndex and count query params, nil when neither is sent
func pageFromQuery(r *http.Request) (*models.PageRequest, error) {
	q := r.URL.Query()
	rawStart, rawCount := q.Get("startIndex"), q.Get("count")
	if rawStart == "" && rawCount == "" {
		return nil, nil
	}
	page := &models.PageRequest{StartIndex: 1}
	if rawStart != "" {
		start, err := strconv.Atoi(rawStart)
		if err != nil || start < 1 {
			return nil, errors.New("startIndex must be a positive integer")
		}
		page.StartIndex = start
	}
	if rawCount != "" {
		count, err := strconv.Atoi(rawCount)
		if err != nil || count < 0 {
			return nil, errors.New("count must be a non negative integer")
		}
		page.Count = count
	}
	return page, nil
}

// filterFromQuery - parsed filter param, nil when absent
func filterFromQuery(r *http.Request) (filter.Filter, error) {
	expr := r.URL.Query().Get("filter")
	if expr == "" {
		return nil, nil
	}
	return filter.Parse(expr)
}
