package telemetry

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{ServerAddress: "http://localhost:4040", ApplicationName: "fms-backend"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop(), "second stop is a no-op")
}

func TestNewProfiler_EnabledRequiresTarget(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProfilerConfig
		wantErr string
	}{
		{"missing server address", ProfilerConfig{Enabled: true, ApplicationName: "fms-backend"}, "server address is required"},
		{"missing application name", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, "application name is required"},
		{"unknown profile type", ProfilerConfig{
			Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "fms-backend",
			ProfileTypes: []string{"cpu", "heap"},
		}, `unknown profile type "heap"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Len(t, types, len(DefaultProfileTypes))
	assert.Equal(t, pyroscope.ProfileCPU, types[0])

	types, err = ParseProfileTypes([]string{" CPU ", "mutex_count", "cpu"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexCount}, types)
}

func TestSetup_ProfilingMisconfigured(t *testing.T) {
	_, err := Setup(context.Background(), SetupConfig{
		Trace:     Config{ServiceName: "fms-backend"},
		Metrics:   MetricsConfig{ServiceName: "fms-backend"},
		Logs:      LogsConfig{ServiceName: "fms-backend"},
		Profiling: ProfilerConfig{Enabled: true, ApplicationName: "fms-backend"},
	}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address is required")
}

func TestEnableSpanProfiles_NoopWithoutTracing(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "fms-backend"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
}
