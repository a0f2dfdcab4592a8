package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.InDelta(t, 0.1, config.Temperature, 1e-6)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierLite: "fallback-model"}}
	assert.Equal(t, "fallback-model", config.GetModel(TierAdvanced))

	config = &Config{Models: map[ModelTier]string{TierStandard: "std", TierLite: "lite", TierAdvanced: ""}}
	assert.Equal(t, "std", config.GetModel(TierAdvanced))

	assert.Equal(t, "", (&Config{}).GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", custom.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", custom.GetModel(TierLite))
	assert.Equal(t, config.Temperature, custom.Temperature)
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    ModelTier
		wantErr bool
	}{
		{input: "", want: TierStandard},
		{input: "lite", want: TierLite},
		{input: " Advanced ", want: TierAdvanced},
		{input: "STANDARD", want: TierStandard},
		{input: "ultra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
