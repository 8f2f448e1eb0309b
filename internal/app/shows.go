package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

const (
	browseCacheTTL = 5 * time.Minute
	dateLayout     = "2006-01-02"
)

// The browse endpoints serve immutable catalog data (screens and shows never
// change once created), so their responses are cached in Redis. Seat
// availability is never cached; it is always read from Postgres.

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	var resp api.MovieListResponse
	if app.browseCacheGet(r, "browse:movies", &resp) {
		app.writeCached(w, r, resp)
		return
	}

	movies, err := app.showRepo.GetMovies(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp = api.MovieListResponse{Movies: movies}
	app.browseCacheSet(r, "browse:movies", resp)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieDates(w http.ResponseWriter, r *http.Request) {
	movie, err := app.readMovieParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cacheKey := fmt.Sprintf("browse:dates:%s", movie)

	var resp api.MovieDatesResponse
	if app.browseCacheGet(r, cacheKey, &resp) {
		app.writeCached(w, r, resp)
		return
	}

	dates, err := app.showRepo.GetDatesByMovie(r.Context(), movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(dates) == 0 {
		app.notFoundResponse(w, r)
		return
	}

	resp = api.MovieDatesResponse{Movie: movie}
	for _, date := range dates {
		resp.Dates = append(resp.Dates, date.Format(dateLayout))
	}

	app.browseCacheSet(r, cacheKey, resp)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShows(w http.ResponseWriter, r *http.Request) {
	movie := r.URL.Query().Get("movie")
	if movie == "" {
		app.badRequestResponse(w, r, errors.New("query parameter \"movie\" is required"))
		return
	}

	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("query parameter \"date\" must be a date in YYYY-MM-DD format"))
		return
	}

	cacheKey := fmt.Sprintf("browse:shows:%s:%s", movie, date.Format(dateLayout))

	var resp api.ShowListResponse
	if app.browseCacheGet(r, cacheKey, &resp) {
		app.writeCached(w, r, resp)
		return
	}

	shows, err := app.showRepo.GetShowsByMovieAndDate(r.Context(), movie, date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(shows) == 0 {
		app.notFoundResponse(w, r)
		return
	}

	resp = api.ShowListResponse{
		Movie: movie,
		Date:  date.Format(dateLayout),
		Shows: make([]api.ShowSummary, 0, len(shows)),
	}
	for _, show := range shows {
		resp.Shows = append(resp.Shows, api.ShowSummary{
			Id:         show.ID,
			ScreenName: show.ScreenName,
			StartTime:  show.StartTime,
			BasePrice:  show.BasePrice,
			Rows:       show.Rows,
			Cols:       show.Cols,
		})
	}

	app.browseCacheSet(r, cacheKey, resp)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShow(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetShowById(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.ShowSummary{
		Id:         show.ID,
		ScreenName: show.ScreenName,
		StartTime:  show.StartTime,
		BasePrice:  show.BasePrice,
		Rows:       show.Rows,
		Cols:       show.Cols,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) readMovieParam(r *http.Request) (string, error) {
	movie, err := url.PathUnescape(chi.URLParam(r, "movie"))
	if err != nil || movie == "" {
		return "", errors.New("invalid movie parameter")
	}

	return movie, nil
}

// browseCacheGet reports whether dst was populated from the cache. Cache
// failures are logged and treated as misses.
func (app *Application) browseCacheGet(r *http.Request, key string, dst any) bool {
	ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
	defer cancel()

	payload, err := app.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			app.contextGetLogger(r).Warn("browse cache read failed", "key", key, "error", err)
		}
		return false
	}

	err = json.Unmarshal(payload, dst)
	if err != nil {
		app.contextGetLogger(r).Warn("browse cache payload corrupt", "key", key, "error", err)
		return false
	}

	return true
}

func (app *Application) browseCacheSet(r *http.Request, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		app.contextGetLogger(r).Warn("browse cache marshal failed", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
	defer cancel()

	err = app.redis.Set(ctx, key, payload, browseCacheTTL).Err()
	if err != nil {
		app.contextGetLogger(r).Warn("browse cache write failed", "key", key, "error", err)
	}
}

func (app *Application) writeCached(w http.ResponseWriter, r *http.Request, resp any) {
	err := app.writeJSON(w, http.StatusOK, resp, http.Header{"X-Cache": []string{"HIT"}})
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
