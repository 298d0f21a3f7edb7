package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ToHTMLSanitized(t *testing.T) {
	svc := NewService()

	out, err := svc.ToHTMLSanitized("**bold** and <script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestService_SanitizeBody(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		body    string
		wantOK  bool
		contain string
	}{
		{
			name:    "plain text survives",
			body:    "printer on floor 3 is jammed",
			wantOK:  true,
			contain: "printer",
		},
		{
			name:    "script is stripped but text remains",
			body:    `hello <script>alert("x")</script> world`,
			wantOK:  true,
			contain: "hello",
		},
		{
			name:   "markup-only body sanitizes to nothing",
			body:   `<script>alert("x")</script>`,
			wantOK: false,
		},
		{
			name:   "whitespace-only body is empty",
			body:   "   \n\t ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, ok := svc.SanitizeBody(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			if tt.contain != "" {
				assert.Contains(t, clean, tt.contain)
			}
			assert.NotContains(t, clean, "<script>")
		})
	}
}
