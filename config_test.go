package interpose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr []string
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "memoization disabled", config: Config{TimerCapacity: 10}},
		{
			name:    "zero timer capacity",
			config:  Config{TimerCapacity: 0},
			wantErr: []string{"timer capacity must be positive"},
		},
		{
			name:    "all fields invalid",
			config:  Config{TimerCapacity: -1, ResolutionCacheSize: -1},
			wantErr: []string{"timer capacity must be positive", "resolution cache size cannot be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
