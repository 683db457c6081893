package client

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMarkerNotFound means the page loaded but the breadcrumb marker never appeared
	ErrMarkerNotFound = errors.New("breadcrumb marker not found")
	// ErrBlocked means the remote answered with a robot check instead of the product page
	ErrBlocked = errors.New("blocked by robot check")
)

// Session is a stateful handle on the remote source. It is not safe for concurrent use;
// one navigation runs at a time.
type Session interface {
	// NavigateAndWait loads url and returns the outer HTML of the breadcrumb marker.
	NavigateAndWait(ctx context.Context, url string) (string, error)
	Close() error
}

// SessionFactory acquires a new Session. The caller owns the session and must close it.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

var robotCheckMarkers = []string{
	"/errors/validateCaptcha",
	"Enter the characters you see below",
	"api-services-support@amazon.com",
}

func isBlockedPage(html string) bool {
	for _, marker := range robotCheckMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}
