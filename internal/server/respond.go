package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) respondError(c *gin.Context, status int, body errorBody, cause error) {
	entry := s.logger.WithFields(logrus.Fields{
		"status": status,
		"code":   body.Code,
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	})
	if cause != nil {
		entry = entry.WithError(cause)
	}
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: body})
}
