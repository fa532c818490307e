package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const shoppingCartFilename = "shopping_cart.txt"

func (s *Server) registerShoppingCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "downloadShoppingCart",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/recipes/download_shopping_cart",
		Summary:     "Download shopping list",
		Description: "Sums the ingredients of every recipe in the cart and returns them as a text attachment",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleDownloadShoppingCart)
}

// DownloadShoppingCartOutput is the rendered shopping list attachment.
type DownloadShoppingCartOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}

func (s *Server) handleDownloadShoppingCart(ctx context.Context, _ *struct{}) (*DownloadShoppingCartOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	// EMPTY_CART surfaces as a JSON 400, not an empty file.
	list, err := s.services.ShoppingList.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Per-user content, never cached.
	return &DownloadShoppingCartOutput{
		ContentType:        "text/plain; charset=utf-8",
		ContentDisposition: `attachment; filename="` + shoppingCartFilename + `"`,
		CacheControl:       CacheNoStore,
		Body:               []byte(list.Render()),
	}, nil
}
