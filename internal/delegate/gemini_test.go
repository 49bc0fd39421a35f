package delegate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

type geminiServer struct {
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func (s *geminiServer) requestPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *geminiServer) lastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bodies) == 0 {
		return nil
	}
	return s.bodies[len(s.bodies)-1]
}

func newTestGemini(t *testing.T, status int, reply any) (*Gemini, *geminiServer) {
	t.Helper()
	recorded := &geminiServer{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		recorded.mu.Lock()
		recorded.bodies = append(recorded.bodies, body)
		recorded.paths = append(recorded.paths, r.URL.Path)
		recorded.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)

	g, err := NewGeminiWithHTTPOptions(context.Background(), "test-key", "gemini-test", genai.HTTPOptions{
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return g, recorded
}

func TestGeminiStructured(t *testing.T) {
	g, recorded := newTestGemini(t, http.StatusOK, geminiReply(`{"skills":["Go"],"keywords":["gRPC"]}`))

	res := g.Structured(context.Background(), "job_description: Go engineer")

	require.Equal(t, TagOK, res.Tag, "cause: %v", res.Cause)
	assert.Equal(t, []string{"Go"}, res.Shape.Skills)
	assert.Equal(t, []string{"gRPC"}, res.Shape.Keywords)

	paths := recorded.requestPaths()
	require.Len(t, paths, 1)
	assert.True(t, strings.HasSuffix(paths[0], "models/gemini-test:generateContent"), paths[0])

	generation, ok := recorded.lastBody()["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", generation["responseMimeType"])
	assert.NotNil(t, generation["responseSchema"])
}

func TestGeminiStructuredSchemaError(t *testing.T) {
	g, _ := newTestGemini(t, http.StatusOK, geminiReply("Sure! Go and gRPC."))

	res := g.Structured(context.Background(), "prompt")

	assert.Equal(t, TagSchemaError, res.Tag)
	assert.Equal(t, "Sure! Go and gRPC.", res.Raw)
}

func TestGeminiStructuredTransportError(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		g, recorded := newTestGemini(t, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
		})

		res := g.Structured(context.Background(), "prompt")

		assert.Equal(t, TagTransportError, res.Tag)
		assert.True(t, IsTransportError(res.Err()))
		assert.Len(t, recorded.requestPaths(), 1)
	})

	t.Run("no candidates", func(t *testing.T) {
		g, _ := newTestGemini(t, http.StatusOK, map[string]any{"candidates": []any{}})

		res := g.Structured(context.Background(), "prompt")

		assert.Equal(t, TagTransportError, res.Tag)
		assert.ErrorIs(t, res.Cause, ErrEmptyResponse)
	})
}

func TestGeminiFreeText(t *testing.T) {
	g, recorded := newTestGemini(t, http.StatusOK, geminiReply("Add Kubernetes projects to your resume."))

	text, err := g.FreeText(context.Background(), "missing skills: Kubernetes")

	require.NoError(t, err)
	assert.Equal(t, "Add Kubernetes projects to your resume.", text)

	raw, err := json.Marshal(recorded.lastBody())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "missing skills: Kubernetes")
	assert.Contains(t, string(raw), "career counselor")
}

func TestGeminiFreeTextEmpty(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		g, _ := newTestGemini(t, http.StatusOK, geminiReply(""))

		_, err := g.FreeText(context.Background(), "prompt")

		assert.True(t, IsTransportError(err))
	})

	t.Run("no candidates", func(t *testing.T) {
		g, _ := newTestGemini(t, http.StatusOK, map[string]any{"candidates": []any{}})

		_, err := g.FreeText(context.Background(), "prompt")

		assert.True(t, IsTransportError(err))
	})
}

func TestShapeSchema(t *testing.T) {
	schema := shapeSchema()

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{"skills", "keywords"}, schema.Required)

	for _, field := range []string{"skills", "keywords"} {
		prop, ok := schema.Properties[field]
		require.True(t, ok, field)
		assert.Equal(t, genai.TypeArray, prop.Type)
		require.NotNil(t, prop.Items)
		assert.Equal(t, genai.TypeString, prop.Items.Type)
	}
}

func TestFeedbackInstructionHasNoTemplateBraces(t *testing.T) {
	assert.NotContains(t, feedbackInstruction, "{")
	assert.NotContains(t, feedbackInstruction, "}")
}
