package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset query parameters. Zero limit lets the
// service pick its default.
func ParsePage(r *http.Request) (Page, error) {
	query := r.URL.Query()
	limit, err := ParseIntParam(query.Get("limit"), 0)
	if err != nil {
		return Page{}, fmt.Errorf("invalid limit")
	}
	offset, err := ParseIntParam(query.Get("offset"), 0)
	if err != nil {
		return Page{}, fmt.Errorf("invalid offset")
	}
	return Page{Limit: limit, Offset: offset}, nil
}
