package httpserver

import (
	"net/http"
	"strings"

	"movieclub/internal/service"
)

type submitCommentRequest struct {
	Content  *string `json:"content"`
	Rating   *int    `json:"rating"`
	ParentID *int64  `json:"parent_id"`
}

func handleListComments(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		threads, err := ratingSvc.ListThreads(r.Context(), movieID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, threads)
	}
}

func handleSubmitComment(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req submitCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		// A bare rating-0 submission is a clear request; answer with the
		// clear outcome rather than an entry. Content that trims to empty
		// counts as absent.
		noContent := req.Content == nil || strings.TrimSpace(*req.Content) == ""
		if req.Rating != nil && *req.Rating == 0 && noContent && req.ParentID == nil {
			res, err := ratingSvc.Clear(r.Context(), CurrentUser(r).ID, movieID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
			return
		}

		entry, err := ratingSvc.Submit(r.Context(), CurrentUser(r).ID, movieID, service.SubmitInput{
			Content:  req.Content,
			Rating:   req.Rating,
			ParentID: req.ParentID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func handleClearRating(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := ratingSvc.Clear(r.Context(), CurrentUser(r).ID, movieID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type editCommentRequest struct {
	Content string `json:"content"`
}

func handleEditComment(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "commentID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req editCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		entry, err := ratingSvc.Edit(r.Context(), id, CurrentUser(r).ID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handleDeleteComment(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "commentID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := ratingSvc.Delete(r.Context(), id, CurrentUser(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
