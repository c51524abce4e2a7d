package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/juhakip/nettileffa/internal/domain"
	"github.com/juhakip/nettileffa/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type personPayload struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

type movieCreateRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Year     int             `json:"year" validate:"min=1800,max=2100"`
	AgeLimit int             `json:"age_limit" validate:"min=0,max=18"`
	Rating   int             `json:"rating" validate:"min=1,max=5"`
	Synopsis *string         `json:"synopsis"`
	Genres   []string        `json:"genres" validate:"min=1,dive,required,max=50"`
	Actors   []personPayload `json:"actors" validate:"omitempty,dive"`
	Director *personPayload  `json:"director"`
}

type movieListQuery struct {
	Search string `json:"search"`
	Sort   string `json:"sort" validate:"oneof=year rating name"`
	Order  string `json:"order" validate:"oneof=asc desc"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
}

type movieListResponse struct {
	Total int64           `json:"total"`
	Items []movieResponse `json:"items"`
}

type movieResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Year     int              `json:"year"`
	AgeLimit int              `json:"age_limit"`
	Rating   int              `json:"rating"`
	Synopsis *string          `json:"synopsis"`
	Genres   []string         `json:"genres"`
	Actors   []personResponse `json:"actors"`
	Director *personResponse  `json:"director"`
}

type personResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := validate.Struct(&query); err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid query parameters",
			Details: validationDetails(err),
		})
		return
	}

	result, err := s.repo.Movies.List(r.Context(), repository.MovieListFilters{
		Search: query.Search,
		Sort:   repository.SortField(query.Sort),
		Order:  repository.SortOrder(query.Order),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		s.logger.WithError(err).Error("list movies failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	items := make([]movieResponse, 0, len(result.Items))
	for _, movie := range result.Items {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{Total: result.Total, Items: items})
}

// parseListQuery applies the service defaults and rejects non-numeric
// limit/offset values. Range and enum checks happen in struct validation.
func parseListQuery(values url.Values) (movieListQuery, error) {
	query := movieListQuery{
		Search: values.Get("search"),
		Sort:   "year",
		Order:  "desc",
		Limit:  20,
		Offset: 0,
	}

	if val := values.Get("sort"); val != "" {
		query.Sort = val
	}
	if val := values.Get("order"); val != "" {
		query.Order = val
	}
	if val := values.Get("limit"); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			return query, fmt.Errorf("limit must be an integer")
		}
		query.Limit = limit
	}
	if val := values.Get("offset"); val != "" {
		offset, err := strconv.Atoi(val)
		if err != nil {
			return query, fmt.Errorf("offset must be an integer")
		}
		query.Offset = offset
	}
	return query, nil
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid movie payload",
			Details: validationDetails(err),
		})
		return
	}

	movie, err := s.repo.Movies.Create(r.Context(), toWriteParams(req))
	if err != nil {
		if errors.Is(err, repository.ErrNoGenres) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "genres must contain at least one entry")
			return
		}
		s.logger.WithError(err).Error("create movie failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create movie")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/movies/%d", movie.ID))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.WithError(err).Error("get movie failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid movie payload",
			Details: validationDetails(err),
		})
		return
	}

	movie, err := s.repo.Movies.Update(r.Context(), id, toWriteParams(req))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		case errors.Is(err, repository.ErrNoGenres):
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "genres must contain at least one entry")
		default:
			s.logger.WithError(err).Error("update movie failed")
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update movie")
		}
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.Genres.ListNames(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list genres failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list genres")
		return
	}
	s.respondJSON(w, http.StatusOK, names)
}

func toWriteParams(req movieCreateRequest) repository.MovieWriteParams {
	params := repository.MovieWriteParams{
		Name:     req.Name,
		Year:     req.Year,
		AgeLimit: req.AgeLimit,
		Rating:   req.Rating,
		Synopsis: req.Synopsis,
		Genres:   req.Genres,
	}
	for _, a := range req.Actors {
		params.Actors = append(params.Actors, repository.PersonName{
			FirstName: a.FirstName,
			LastName:  a.LastName,
		})
	}
	if req.Director != nil {
		params.Director = &repository.PersonName{
			FirstName: req.Director.FirstName,
			LastName:  req.Director.LastName,
		}
	}
	return params
}

// toMovieResponse flattens the entity graph into the wire shape: genre names
// (sorted by the loader), actor name pairs, and a nullable director.
func toMovieResponse(movie domain.Movie) movieResponse {
	resp := movieResponse{
		ID:       movie.ID,
		Name:     movie.Name,
		Year:     movie.Year,
		AgeLimit: movie.AgeLimit,
		Rating:   movie.Rating,
		Synopsis: movie.Synopsis,
		Genres:   movie.GenreNames(),
		Actors:   make([]personResponse, 0, len(movie.Actors)),
	}
	for _, a := range movie.Actors {
		resp.Actors = append(resp.Actors, personResponse{
			FirstName: a.FirstName,
			LastName:  a.LastName,
		})
	}
	if movie.Director != nil {
		resp.Director = &personResponse{
			FirstName: movie.Director.FirstName,
			LastName:  movie.Director.LastName,
		}
	}
	return resp
}

func movieIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return 0, fmt.Errorf("missing id parameter")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.WithError(err).Error("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
