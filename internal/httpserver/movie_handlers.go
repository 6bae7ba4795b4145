package httpserver

import (
	"net/http"

	"movieclub/internal/domain"
	"movieclub/internal/service"
)

// movieResponse wraps a movie with the vote average rounded to one decimal.
// The stored value keeps full precision; rounding is a display concern.
type movieResponse struct {
	*domain.Movie
	LocalVoteAverage float64 `json:"local_vote_average"`
}

func newMovieResponse(m *domain.Movie) movieResponse {
	return movieResponse{Movie: m, LocalVoteAverage: service.RoundedAverage(m.LocalVoteAverage)}
}

func newMovieResponses(movies []*domain.Movie) []movieResponse {
	res := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		res = append(res, newMovieResponse(m))
	}
	return res
}

func handleSearchMovies(movieSvc *service.MovieService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, total, err := movieSvc.Search(r.Context(),
			r.URL.Query().Get("q"),
			queryInt(r, "offset", 0),
			queryInt(r, "limit", 20),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"movies": newMovieResponses(movies),
			"total":  total,
		})
	}
}

func handleGetMovie(movieSvc *service.MovieService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		movie, err := movieSvc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMovieResponse(movie))
	}
}

type movieRequest struct {
	TmdbID    int64   `json:"tmdb_id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Overview  *string `json:"overview"`
	PosterURL *string `json:"poster_url"`
}

func (req movieRequest) toInput() service.MovieInput {
	return service.MovieInput{
		TmdbID:    req.TmdbID,
		Title:     req.Title,
		Year:      req.Year,
		Overview:  req.Overview,
		PosterURL: req.PosterURL,
	}
}

func handleCreateMovie(movieSvc *service.MovieService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req movieRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		movie, err := movieSvc.Create(r.Context(), req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newMovieResponse(movie))
	}
}

func handleUpdateMovie(movieSvc *service.MovieService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		var req movieRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		movie, err := movieSvc.Update(r.Context(), id, req.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMovieResponse(movie))
	}
}

func handleDeleteMovie(movieSvc *service.MovieService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := movieSvc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRecomputeMovie(ratingSvc *service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "movieID")
		if err != nil {
			writeError(w, err)
			return
		}
		agg, err := ratingSvc.Recompute(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"vote_count":   agg.VoteCount,
			"vote_average": service.RoundedAverage(agg.VoteAverage),
		})
	}
}
