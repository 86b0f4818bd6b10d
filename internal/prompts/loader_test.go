package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownKeys(t *testing.T) {
	for _, key := range []string{"replace_instruction", "prepend_instruction"} {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get(key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
			assert.Contains(t, prompt, "{{.Content}}", "every instruction must embed the file content")
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, err := Get("no_such_prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_prompt")
}

func TestMustGetPanicsOnMissingKey(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("no_such_prompt")
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "annotate: {{.Content}}",
			data:     map[string]string{"Content": "const a = 1;"},
			want:     "annotate: const a = 1;",
		},
		{
			name:     "missing key leaves placeholder",
			template: "annotate: {{.Content}}",
			data:     map[string]string{"Other": "x"},
			want:     "annotate: {{.Content}}",
		},
		{
			name:     "repeated placeholder",
			template: "{{.X}} and {{.X}}",
			data:     map[string]string{"X": "y"},
			want:     "y and y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestFormatWithFileContent(t *testing.T) {
	template := MustGet("prepend_instruction")
	out := Format(template, map[string]string{"Content": "func main() {}"})
	assert.True(t, strings.HasSuffix(out, "func main() {}"))
	assert.NotContains(t, out, "{{.Content}}")
}
