package handlers

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Paginated is the length-aware page envelope returned by list endpoints.
type Paginated struct {
	Data         interface{} `json:"data"`
	CurrentPage  int         `json:"current_page"`
	LastPage     int         `json:"last_page"`
	PerPage      int         `json:"per_page"`
	Total        int64       `json:"total"`
	From         *int        `json:"from"`
	To           *int        `json:"to"`
	Path         string      `json:"path"`
	FirstPageURL string      `json:"first_page_url"`
	LastPageURL  string      `json:"last_page_url"`
	NextPageURL  *string     `json:"next_page_url"`
	PrevPageURL  *string     `json:"prev_page_url"`
}

func newPaginated(c *gin.Context, data interface{}, count, page, perPage, lastPage int, total int64) Paginated {
	path := requestPath(c)
	p := Paginated{
		Data:         data,
		CurrentPage:  page,
		LastPage:     lastPage,
		PerPage:      perPage,
		Total:        total,
		Path:         path,
		FirstPageURL: pageURL(path, 1),
		LastPageURL:  pageURL(path, lastPage),
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From, p.To = &from, &to
	}
	if page < lastPage {
		next := pageURL(path, page+1)
		p.NextPageURL = &next
	}
	if page > 1 {
		prev := pageURL(path, page-1)
		p.PrevPageURL = &prev
	}
	return p
}

func requestPath(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path}
	return u.String()
}

func pageURL(path string, page int) string {
	return fmt.Sprintf("%s?page=%d", path, page)
}
