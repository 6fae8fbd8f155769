package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSearch(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "query parameter 'q' is required")
		return
	}
	results, err := s.search.Search(c.Request.Context(), principal.FirmID, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
