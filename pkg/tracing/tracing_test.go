package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://tempo:4318", "tempo:4318"},
		{"https://collector.internal", "collector.internal:4318"},
		{"otel:4318", "otel:4318"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOTLPEndpoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitWithoutEndpointIsDisabled(t *testing.T) {
	assert.Nil(t, Init("", "hotel-booking", zap.NewNop()))
}
