package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/skillsync/internal/delegate"
	"github.com/muhammadolammi/skillsync/internal/extract"
	"github.com/muhammadolammi/skillsync/internal/pipeline"
	"github.com/pkg/errors"
)

func (s *Server) analyze(c *gin.Context) {
	if c.Request.ContentLength > maxUploadSize {
		s.respondTooLarge(c, nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	// FormFile parses the whole form; PostForm swallows parse errors.
	fileHeader, err := c.FormFile("resume")
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrMissingFile):
	case errors.As(err, &tooLarge):
		s.respondTooLarge(c, err)
		return
	default:
		s.respondError(c, http.StatusBadRequest, errorBody{Code: "invalid_form", Message: "request must be a multipart form"}, err)
		return
	}

	jobDescription := c.PostForm("job_description")

	resumeText := ""
	if fileHeader != nil {
		mime := extract.MimeFromFilename(fileHeader.Filename)
		if mime == "" {
			mime = fileHeader.Header.Get("Content-Type")
		}

		file, err := fileHeader.Open()
		if err != nil {
			s.respondError(c, http.StatusBadRequest, errorBody{Code: "validation_error", Message: "unable to read resume", Field: "resume"}, err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			s.respondError(c, http.StatusBadRequest, errorBody{Code: "validation_error", Message: "unable to read resume", Field: "resume"}, err)
			return
		}

		resumeText, err = extract.Text(mime, data)
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			s.respondError(c, http.StatusUnsupportedMediaType, errorBody{Code: "unsupported_file", Message: "resume must be a pdf, docx or txt file", Field: "resume"}, err)
			return
		case err != nil:
			s.respondError(c, http.StatusUnprocessableEntity, errorBody{Code: "extraction_error", Message: "unable to extract text from resume", Field: "resume"}, err)
			return
		}
	}

	report, err := s.analyzer.Run(c.Request.Context(), pipeline.Input{
		JobDescription: jobDescription,
		ResumeText:     resumeText,
	})
	if err != nil {
		s.respondRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) respondTooLarge(c *gin.Context, err error) {
	s.respondError(c, http.StatusRequestEntityTooLarge, errorBody{
		Code:    "payload_too_large",
		Message: fmt.Sprintf("request body must not exceed %d MB", maxUploadSize>>20),
	}, err)
}

func (s *Server) respondRunError(c *gin.Context, err error) {
	var ve *pipeline.ValidationError
	if errors.As(err, &ve) {
		s.respondError(c, http.StatusBadRequest, errorBody{Code: "validation_error", Message: ve.Message, Field: ve.Field}, nil)
		return
	}

	var de *delegate.Error
	if errors.As(err, &de) {
		var se *pipeline.StageError
		msg := "model call failed"
		if errors.As(err, &se) {
			msg = strings.ReplaceAll(string(se.Stage), "_", " ") + " failed: " + de.Tag.String()
		}
		s.respondError(c, http.StatusBadGateway, errorBody{Code: "delegate_error", Message: msg}, err)
		return
	}

	s.respondError(c, http.StatusInternalServerError, errorBody{Code: "internal_error", Message: "analysis failed"}, err)
}
