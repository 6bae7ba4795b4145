package httpserver

import (
	"net/http"

	"movieclub/internal/service"
)

func handleFavorite(libSvc *service.LibraryService, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}

		var count int
		if add {
			count, err = libSvc.Favorite(r.Context(), CurrentUser(r).ID, movieID)
		} else {
			count, err = libSvc.Unfavorite(r.Context(), CurrentUser(r).ID, movieID)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"favorited":      add,
			"favorite_count": count,
		})
	}
}

func handleListFavorites(libSvc *service.LibraryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := libSvc.ListFavorites(r.Context(), CurrentUser(r).ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMovieResponses(movies))
	}
}

func handleWatchlistAdd(libSvc *service.LibraryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := libSvc.WatchlistAdd(r.Context(), CurrentUser(r).ID, movieID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleWatchlistRemove(libSvc *service.LibraryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := libSvc.WatchlistRemove(r.Context(), CurrentUser(r).ID, movieID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type setWatchedRequest struct {
	Watched bool `json:"watched"`
}

func handleSetWatched(libSvc *service.LibraryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req setWatchedRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		entry, err := libSvc.SetWatched(r.Context(), CurrentUser(r).ID, movieID, req.Watched)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleWatchlist(libSvc *service.LibraryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := libSvc.Watchlist(r.Context(), CurrentUser(r).ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
