package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/search"
	"github.com/emnesok/emnesok-api/internal/types"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func (s *Server) RegisterRoutes() http.Handler {
	router := gin.Default()
	router.Use(s.RequestIDMiddleware())
	router.Use(s.RateLimitMiddleware())

	router.GET("/health", s.healthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/institutions", s.getInstitutions)
		v1.GET("/search", s.searchCourses)
		v1.GET("/popular", s.getPopular)

		courses := v1.Group("/courses")
		{
			courses.GET("/:institution/:code/grades", s.getCourseGrades)
		}
	}

	return router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "emnesok API is running",
	})
}

func (s *Server) getInstitutions(c *gin.Context) {
	insts := institutions.All()
	c.JSON(http.StatusOK, gin.H{
		"count":        len(insts),
		"institutions": insts,
	})
}

// Search consults the result cache before touching the index, so repeated
// queries answer without reloading or re-ranking anything. A recorded
// negative result answers "not found" immediately.
func (s *Server) searchCourses(c *gin.Context) {
	query := c.Query("q")
	scope := normalizeTag(c.Query("institution"))
	limit, ok := parseLimitOrRespond(c)
	if !ok {
		return
	}

	if scope != "" && !institutions.IsKnown(scope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown institution"})
		return
	}

	if cached, outcome := s.results.Get(query, scope); outcome != search.Unknown {
		if outcome == search.KnownEmpty {
			c.JSON(http.StatusOK, gin.H{"count": 0, "courses": []types.CourseInfo{}, "not_found": true, "cached": true})
			return
		}
		if len(cached) > limit {
			cached = cached[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"count": len(cached), "courses": cached, "cached": true})
		return
	}

	// The index is asked for the full window, not the caller's limit, so the
	// cached list can serve any later limit up to the maximum by slicing.
	results, err := s.index.Search(c.Request.Context(), types.SearchQuery{
		Query:       query,
		Institution: scope,
		Limit:       maxSearchLimit,
	})
	if err != nil {
		if errors.Is(err, types.ErrUnknownInstitution) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown institution"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	if len(results) == 0 && strings.TrimSpace(query) != "" {
		s.results.MarkNegative(query, scope)
		c.JSON(http.StatusOK, gin.H{"count": 0, "courses": []types.CourseInfo{}, "not_found": true})
		return
	}

	s.results.Put(query, scope, results)
	if len(results) > limit {
		results = results[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "courses": results})
}

func (s *Server) getPopular(c *gin.Context) {
	scope := normalizeTag(c.Query("institution"))
	limit, ok := parseLimitOrRespond(c)
	if !ok {
		return
	}

	courses, provenance, err := s.index.Popular(c.Request.Context(), scope, limit)
	if err != nil {
		if errors.Is(err, types.ErrUnknownInstitution) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown institution"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rank courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(courses),
		"courses":    courses,
		"provenance": provenance,
	})
}

// getCourseGrades is the grades pipeline endpoint. Unlike search, transport
// failures here surface as errors: "no data" and "could not check" must
// stay distinguishable for the caller.
func (s *Server) getCourseGrades(c *gin.Context) {
	tag := normalizeTag(c.Param("institution"))
	code := c.Param("code")

	if tag == "" || strings.TrimSpace(code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "institution and course code are required"})
		return
	}

	year := 0
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a positive integer"})
			return
		}
		year = parsed
	}

	stats, err := s.grades.CourseStatistics(c.Request.Context(), tag, code, year)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUnknownInstitution):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown institution"})
		case errors.Is(err, types.ErrNotFound):
			// Only an all-years miss proves the course has no statistics;
			// a year-scoped miss says nothing about the other years.
			if year == 0 {
				s.avail.MarkUnavailable(code, tag)
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "no data for this course"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the statistics service"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}

func normalizeTag(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func parseLimitOrRespond(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return defaultSearchLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit parameter must be a positive integer"})
		return 0, false
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return limit, true
}
