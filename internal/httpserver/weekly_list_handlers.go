package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"movieclub/internal/service"
)

// currentISOWeek formats time.Now() as "2026-W35".
func currentISOWeek() string {
	year, week := time.Now().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func handleListWeeklyLists(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lists, err := listSvc.List(r.Context(), CurrentUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lists)
	}
}

func handleCurrentWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := listSvc.GetByWeek(r.Context(), currentISOWeek(), CurrentUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		movies, err := listSvc.Movies(r.Context(), list.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"list":   list,
			"movies": newMovieResponses(movies),
		})
	}
}

func handleGetWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "listID")
		if err != nil {
			writeError(w, err)
			return
		}
		list, err := listSvc.Get(r.Context(), id, CurrentUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		movies, err := listSvc.Movies(r.Context(), list.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"list":   list,
			"movies": newMovieResponses(movies),
		})
	}
}

func handleSharedWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		list, err := listSvc.GetByShareToken(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		movies, err := listSvc.Movies(r.Context(), list.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"list":   list,
			"movies": newMovieResponses(movies),
		})
	}
}

type weeklyListRequest struct {
	Week        string  `json:"week"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Published   bool    `json:"published"`
}

func (req weeklyListRequest) toInput() service.WeeklyListInput {
	return service.WeeklyListInput{
		Week:        req.Week,
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	}
}

func handleCreateWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req weeklyListRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		list, err := listSvc.Create(r.Context(), CurrentUser(r).ID, req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, list)
	}
}

func handleUpdateWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "listID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req weeklyListRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		list, err := listSvc.Update(r.Context(), id, req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleDeleteWeeklyList(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "listID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := listSvc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type addListMovieRequest struct {
	Position int `json:"position"`
}

func handleAddListMovie(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := pathID(r, "listID")
		if err != nil {
			writeError(w, err)
			return
		}
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req addListMovieRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := listSvc.AddMovie(r.Context(), listID, movieID, req.Position); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRemoveListMovie(listSvc *service.WeeklyListService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := pathID(r, "listID")
		if err != nil {
			writeError(w, err)
			return
		}
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := listSvc.RemoveMovie(r.Context(), listID, movieID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
