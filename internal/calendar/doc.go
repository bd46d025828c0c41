// Package calendar exports meeting search results as an iCalendar feed.
package calendar
