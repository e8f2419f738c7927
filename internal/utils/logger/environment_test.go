package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ = Describe("Logger Environment", func() {
	DescribeTable("config per environment",
		func(build func() zap.Config, level zapcore.Level, encoding string, quiet bool, out []string) {
			cfg := build()

			Expect(cfg.Level.Level()).To(Equal(level))
			Expect(cfg.Encoding).To(Equal(encoding))
			Expect(cfg.DisableCaller).To(Equal(quiet))
			Expect(cfg.DisableStacktrace).To(Equal(quiet))
			Expect(cfg.OutputPaths).To(Equal(out))
		},
		Entry("production", newProductionLoggerConfig, zap.InfoLevel, "json", false, []string{"stdout"}),
		Entry("staging", newStagingLoggerConfig, zap.InfoLevel, "json", true, []string{"stdout"}),
		Entry("development", newDevelopmentLoggerConfig, zap.DebugLevel, "console", true, []string{"stdout"}),
		Entry("cli", newCLILoggerConfig, zap.DebugLevel, "console", true, []string{"stderr"}),
		Entry("test", newTestLoggerConfig, zap.InfoLevel, "json", false, []string{}),
	)

	It("stamps production entries with an ISO8601 timestamp key", func() {
		cfg := newProductionLoggerConfig()
		Expect(cfg.EncoderConfig.TimeKey).To(Equal("timestamp"))
		Expect(cfg.Development).To(BeFalse())
	})

	It("drops the timestamp from cli output", func() {
		cfg := newCLILoggerConfig()
		Expect(cfg.EncoderConfig.TimeKey).To(BeEmpty())
		Expect(cfg.ErrorOutputPaths).To(Equal([]string{"stderr"}))
	})
})
