package service

import (
	"net/http"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
)

// IsReadMethod reports whether method never modifies state.
func IsReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// ReadOnlyOrAuthenticated allows reads for everyone and any method for authenticated users.
// userID is zero for anonymous requests.
func ReadOnlyOrAuthenticated(method string, userID int64) error {
	if IsReadMethod(method) || userID != 0 {
		return nil
	}
	return domainerrors.Unauthorized("authentication credentials were not provided")
}

// AuthorOrReadOnly allows reads for everyone and writes only for the resource's author.
func AuthorOrReadOnly(method string, userID, authorID int64) error {
	if IsReadMethod(method) {
		return nil
	}
	if userID == 0 {
		return domainerrors.Unauthorized("authentication credentials were not provided")
	}
	if userID != authorID {
		return domainerrors.Forbidden("only the author can modify this recipe")
	}
	return nil
}
