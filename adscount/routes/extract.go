package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adscount/adscount/controllers"
)

// ExtractRoutes registers the one-off extraction endpoint.
func ExtractRoutes(ctrl *controllers.ExtractController) chi.Router {
	r := chi.NewRouter()

	// POST / — {"url": "..."} → the classified result plus its table cell
	r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		if req.URL == "" {
			return nil, http.StatusBadRequest, errors.New("url is required")
		}

		result, err := ctrl.ExtractOne(req.URL)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{
			"url":    req.URL,
			"result": result,
			"cell":   result.Cell(),
		}, http.StatusOK, nil
	}))

	return r
}
