package models

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// ErrPageOutOfRange is returned when the requested page starts past the end.
var ErrPageOutOfRange = errors.New("page out of range")

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type PageRequest struct {
	Page     int
	PageSize int
}

func ParsePageRequest(query url.Values) (PageRequest, error) {
	req := PageRequest{Page: 1, PageSize: DefaultPageSize}
	var errs []string

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errs = append(errs, "page must be a positive integer")
		} else {
			req.Page = page
		}
	}

	if raw := strings.TrimSpace(query.Get("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > MaxPageSize {
			errs = append(errs, "pageSize must be between 1 and "+strconv.Itoa(MaxPageSize))
		} else {
			req.PageSize = size
		}
	}

	if len(errs) > 0 {
		return PageRequest{}, errors.New(strings.Join(errs, "; "))
	}
	return req, nil
}

// Paginate slices items for the request. Page 1 of an empty list is valid;
// any other page past the end is ErrPageOutOfRange.
func Paginate[T any](items []T, req PageRequest) (Page[T], error) {
	total := len(items)
	totalPages := (total + req.PageSize - 1) / req.PageSize

	start := (req.Page - 1) * req.PageSize
	if start >= total && req.Page != 1 {
		return Page[T]{}, ErrPageOutOfRange
	}

	end := start + req.PageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}

	return Page[T]{
		Items:      append([]T{}, items[start:end]...),
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}
