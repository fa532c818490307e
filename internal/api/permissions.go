package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/service"
	"github.com/foodgram/foodgram-server/internal/store"
)

// writeError renders err through the registered error handler.
func (s *Server) writeError(ctx huma.Context, err error) {
	var de *domainerrors.Error
	status := http.StatusInternalServerError
	if errors.As(err, &de) {
		status = de.HTTPStatus()
	}
	_ = huma.WriteErr(s.api, ctx, status, err.Error(), err)
}

// readOnlyOrAuthenticated lets reads through and requires a user for writes.
func (s *Server) readOnlyOrAuthenticated(ctx huma.Context, next func(huma.Context)) {
	if err := service.ReadOnlyOrAuthenticated(ctx.Method(), viewerID(ctx.Context())); err != nil {
		s.writeError(ctx, err)
		return
	}
	next(ctx)
}

// authorOrReadOnly lets reads through and restricts writes on /recipes/{id}
// to the recipe's author. Unknown recipes fall through to the handler's 404.
func (s *Server) authorOrReadOnly(ctx huma.Context, next func(huma.Context)) {
	method := ctx.Method()
	if service.IsReadMethod(method) {
		next(ctx)
		return
	}

	userID := viewerID(ctx.Context())
	if err := service.ReadOnlyOrAuthenticated(method, userID); err != nil {
		s.writeError(ctx, err)
		return
	}

	recipeID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		next(ctx)
		return
	}

	recipe, err := s.store.GetRecipe(ctx.Context(), recipeID)
	if errors.Is(err, store.ErrNotFound) {
		next(ctx)
		return
	}
	if err != nil {
		s.writeError(ctx, err)
		return
	}

	if err := service.AuthorOrReadOnly(method, userID, recipe.AuthorID); err != nil {
		s.writeError(ctx, err)
		return
	}
	next(ctx)
}
