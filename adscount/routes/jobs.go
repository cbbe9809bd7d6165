package routes

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adscount/adscount/controllers"
	"adscount/adscount/utils/logging"
)

// JobRoutes registers the upload / run / progress / download surface.
func JobRoutes(ctrl *controllers.JobsController) chi.Router {
	r := chi.NewRouter()

	// POST / — upload a CSV, get a pending job with a preview
	r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, http.StatusBadRequest, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		defer file.Close()

		snap, err := ctrl.CreateJob(file)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return snap, http.StatusOK, nil
	}))

	// POST /{id}/start
	r.Post("/{id}/start", handleJSON(func(r *http.Request) (any, int, error) {
		snap, err := ctrl.StartJob(chi.URLParam(r, "id"))
		if err != nil {
			return nil, jobStatusCode(err), err
		}
		return snap, http.StatusOK, nil
	}))

	// GET /{id}
	r.Get("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
		snap, err := ctrl.Snapshot(chi.URLParam(r, "id"))
		if err != nil {
			return nil, jobStatusCode(err), err
		}
		return snap, http.StatusOK, nil
	}))

	// GET /{id}/ws — live progress stream, one JSON event per processed row
	r.HandleFunc("/{id}/ws", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		events, cancel, err := ctrl.Subscribe(id)
		if err != nil {
			http.Error(w, err.Error(), jobStatusCode(err))
			return
		}
		defer cancel()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		ctx := r.Context()

		for ev := range events {
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
		// events closed: the job finished, send the final state
		if snap, err := ctrl.Snapshot(id); err == nil {
			_ = wsjson.Write(ctx, conn, snap)
		}
		conn.Close(websocket.StatusNormalClosure, "done")
	})

	// GET /{id}/result — download the output CSV
	r.Get("/{id}/result", func(w http.ResponseWriter, r *http.Request) {
		path, err := ctrl.ResultPath(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, err.Error(), jobStatusCode(err))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ads_count_results.csv"`)
		http.ServeFile(w, r, path)
	})

	return r
}

func jobStatusCode(err error) int {
	switch {
	case errors.Is(err, controllers.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, controllers.ErrJobNotPending), errors.Is(err, controllers.ErrJobNotDone):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
