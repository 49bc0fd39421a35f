package delegate

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "whitespace", input: "  \n{\"a\":1}\n\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.input))
		})
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantTag Tag
		want    Shape
	}{
		{
			name:    "valid",
			raw:     `{"skills":["Python","Machine Learning"],"keywords":["ETL"]}`,
			wantTag: TagOK,
			want:    Shape{Skills: []string{"Python", "Machine Learning"}, Keywords: []string{"ETL"}},
		},
		{
			name:    "fenced with extra field",
			raw:     "```json\n{\"skills\":[],\"keywords\":[\"AWS\"],\"notes\":\"x\"}\n```",
			wantTag: TagOK,
			want:    Shape{Skills: []string{}, Keywords: []string{"AWS"}},
		},
		{
			name:    "duplicates kept",
			raw:     `{"skills":["Go","Go"],"keywords":[]}`,
			wantTag: TagOK,
			want:    Shape{Skills: []string{"Go", "Go"}, Keywords: []string{}},
		},
		{name: "empty", raw: "   ", wantTag: TagSchemaError},
		{name: "prose", raw: "Here are the skills: Go", wantTag: TagSchemaError},
		{name: "array", raw: `["Go"]`, wantTag: TagSchemaError},
		{name: "missing keywords", raw: `{"skills":["Go"]}`, wantTag: TagSchemaError},
		{name: "null skills", raw: `{"skills":null,"keywords":[]}`, wantTag: TagSchemaError},
		{name: "string skills", raw: `{"skills":"Go","keywords":[]}`, wantTag: TagSchemaError},
		{name: "number item", raw: `{"skills":["Go",3],"keywords":[]}`, wantTag: TagSchemaError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseShape(tt.raw)
			assert.Equal(t, tt.wantTag, res.Tag, "cause: %v", res.Cause)
			if tt.wantTag == TagOK {
				assert.Equal(t, tt.want, res.Shape)
				assert.NoError(t, res.Err())
				return
			}
			assert.Equal(t, tt.raw, res.Raw)
			assert.True(t, IsSchemaError(res.Err()))
		})
	}
}

func TestResultErr(t *testing.T) {
	cause := errors.New("connection reset")
	err := TransportFailure(cause).Err()

	assert.True(t, IsTransportError(err))
	assert.False(t, IsSchemaError(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "transport_error: connection reset", err.Error())
}
