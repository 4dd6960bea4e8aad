package logging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Configure(t *testing.T) {
	tests := []struct {
		name     string
		options  Options
		contains []string
		excludes []string
	}{
		{
			name:     "default level hides info",
			options:  Options{},
			contains: []string{" level=warning ", ` msg="disk almost full"`},
			excludes: []string{"loaded ontology"},
		},
		{
			name:     "default/UTC_timestamp",
			options:  Options{},
			contains: []string{` UTC"`},
		},
		{
			name:     "debug level",
			options:  Options{Level: "debug"},
			contains: []string{`msg="Initialized Logrus"`, `msg="loaded ontology"`},
		},
		{
			name:     "json",
			options:  Options{Level: "info", Format: "json"},
			contains: []string{`"msg":"loaded ontology"`, `"level":"warning"`},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger := logrus.New()
			var buf strings.Builder
			options := test.options
			options.Logger = logger
			options.Out = &buf
			require.NoError(t, Configure(options))

			logger.Info("loaded ontology")
			logger.Warn("disk almost full")

			output := buf.String()
			for _, needle := range test.contains {
				assert.Contains(t, output, needle)
			}
			for _, needle := range test.excludes {
				assert.NotContains(t, output, needle)
			}
		})
	}
}

func Test_Configure_Errors(t *testing.T) {
	logger := logrus.New()
	assert.ErrorContains(t, Configure(Options{Logger: logger, Level: "chatty"}), "invalid log level")
	assert.ErrorContains(t, Configure(Options{Logger: logger, Format: "xml"}), "unknown log format")
}

func Test_Configure_RepeatedCallsDoNotStackHooks(t *testing.T) {
	logger := logrus.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, Configure(Options{Logger: logger}))
	}
	assert.Len(t, logger.Hooks[logrus.InfoLevel], 1)
}

func Test_utcHook(t *testing.T) {
	logger := logrus.New()
	var buf strings.Builder
	require.NoError(t, Configure(Options{Logger: logger, Out: &buf, Format: "json"}))

	loc := time.FixedZone("UTC+9", 9*60*60)
	logger.WithTime(time.Date(2024, 3, 1, 9, 30, 0, 0, loc)).Error("boom")

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, "2024-03-01T00:30:00.000000Z", line["time"])
}
