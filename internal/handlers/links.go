package handlers

import (
	"net/url"
	"time"

	"spendtable/internal/overview"
	"spendtable/internal/validator"
)

// categoryQuery links to the expenses of categoryID, including its subtree
// when children is set.
func categoryQuery(categoryID string, children bool) string {
	q := "category=" + url.QueryEscape(categoryID)
	if children {
		q += "&show_children=True"
	}
	return q
}

// periodQuery links to the expenses between the first and last day of p.
func periodQuery(p overview.Period) string {
	return "from=" + formatDate(p.Start) + "&to=" + formatDate(p.LastDay())
}

func formatDate(t time.Time) string {
	return t.Format(validator.DateLayout)
}
