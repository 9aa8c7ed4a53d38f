package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.loggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	registry := NewRegistry(INFO, NewBlankLogger)
	for _, name := range loggerNames {
		registry.Logger(name)
	}
	return registry
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	type testCfg struct {
		pattern string
		isValid bool
	}

	tests := []testCfg{
		{"awareness.processor", true},
		{"awareness.processor.*", true},
		{"awareness.*.depth", true},
		{"awareness.*.*", true},
		{"*.depth", true},
		{"*", true},
		{"producer-fake", true},

		{"awareness..processor", false},
		{"awareness.processor.", false},
		{".awareness.processor", false},
		{"awareness.processor.**", false},
		{"awareness.**.depth", false},
		{"_.awareness.processor", false},
		{"awareness.-", false},
		{"awareness._.depth", false},
		{"awareness depth", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, validatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestPatternConfigValidate(t *testing.T) {
	test.That(t, LoggerPatternConfig{Pattern: "awareness.*", Level: "debug"}.Validate("log.0"), test.ShouldBeNil)

	err := LoggerPatternConfig{Pattern: "awareness..x", Level: "debug"}.Validate("log.1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "log.1")

	err = LoggerPatternConfig{Pattern: "awareness", Level: "loud"}.Validate("log.2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log level")
}

func TestUpdateLoggerRegistry(t *testing.T) {
	type testCfg struct {
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}

	tests := []testCfg{
		{
			loggerConfig: []LoggerPatternConfig{{Pattern: "awareness.processor", Level: "WARN"}},
			loggerNames:  []string{"awareness.processor", "awareness.processor.depth", "awareness.cli"},
			expectedMatches: map[string]string{
				"awareness.processor":       "WARN",
				"awareness.processor.depth": "INFO",
				"awareness.cli":             "INFO",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{{Pattern: "awareness.*", Level: "DEBUG"}},
			loggerNames:  []string{"awareness.processor", "awareness.producer.fake", "awareness.processor.semantic"},
			expectedMatches: map[string]string{
				"awareness.processor":          "DEBUG",
				"awareness.producer.fake":      "DEBUG",
				"awareness.processor.semantic": "DEBUG",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{{Pattern: "awareness.*.depth", Level: "ERROR"}},
			loggerNames:  []string{"awareness.processor.depth", "awareness.producer.depth", "awareness.processor.semantic"},
			expectedMatches: map[string]string{
				"awareness.processor.depth":    "ERROR",
				"awareness.producer.depth":     "ERROR",
				"awareness.processor.semantic": "INFO",
			},
		},
		{
			// Later patterns override earlier ones.
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "awareness.*", Level: "DEBUG"},
				{Pattern: "awareness.processor", Level: "WARN"},
			},
			loggerNames:     []string{"awareness.processor"},
			expectedMatches: map[string]string{"awareness.processor": "WARN"},
		},
		{
			loggerConfig:    []LoggerPatternConfig{{Pattern: "_.*.depth", Level: "DEBUG"}},
			loggerNames:     []string{"awareness.processor"},
			expectedMatches: map[string]string{"awareness.processor": "INFO"},
		},
		{
			loggerConfig:    []LoggerPatternConfig{{Pattern: "a.b", Level: "DEBUG"}},
			loggerNames:     []string{"a.b.c"},
			expectedMatches: map[string]string{"a.b.c": "INFO"},
		},
	}

	for _, tc := range tests {
		testRegistry := createTestRegistry(tc.loggerNames)
		testRegistry.UpdateConfig(tc.loggerConfig, NewBlankLogger("error-logger"))
		test.That(t, verifySetLevels(testRegistry, tc.expectedMatches), test.ShouldBeTrue)
	}
}

func TestRegistryAppliesConfigToNewLoggers(t *testing.T) {
	registry := NewRegistry(INFO, NewBlankLogger)
	registry.UpdateConfig([]LoggerPatternConfig{{Pattern: "awareness.*", Level: "error"}}, NewBlankLogger("err"))

	logger := registry.Logger("awareness.processor.depth")
	test.That(t, logger.GetLevel(), test.ShouldEqual, ERROR)
	test.That(t, registry.Logger("awareness.processor.depth"), test.ShouldEqual, logger)
	test.That(t, registry.Logger("other").GetLevel(), test.ShouldEqual, INFO)
}
