package api

import (
	"net/http"
	"strconv"

	"github.com/lazhrach20/auto-assistent-llm/internal/store"
	"github.com/lazhrach20/auto-assistent-llm/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server serves the read API consumed by the chat client and frontend
type Server struct {
	echo  *echo.Echo
	store *store.CarStore
	log   *logger.Logger
}

// NewServer creates the API server and registers all routes
func NewServer(st *store.CarStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:  e,
		store: st,
		log:   logger.ForComponent("api"),
	}

	e.GET("/", s.health)
	e.GET("/api/cars", s.listCars)
	e.POST("/api/match", s.match)

	return s
}

// Start runs the server on the given address until it fails or is shut down
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("Starting API server")
	return s.echo.Start(addr)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "car listings API is running"})
}

// listCars handles GET /api/cars?cursor=&limit=&search=
func (s *Server) listCars(c echo.Context) error {
	params := store.SearchParams{
		Limit: store.DefaultPageSize,
		Term:  c.QueryParam("search"),
	}

	if raw := c.QueryParam("cursor"); raw != "" {
		cursor, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "cursor must be an integer"})
		}
		params.Cursor = uint(cursor)
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		params.Limit = limit
	}

	result, err := s.store.Search(c.Request().Context(), params)
	if err != nil {
		s.log.Error().Err(err).Msg("Search failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, result)
}

// match handles POST /api/match with the bot's filter object
func (s *Server) match(c echo.Context) error {
	var filter store.Filter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid filter"})
	}

	cars, err := s.store.Match(c.Request().Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Match failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "match failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"items": cars})
}
