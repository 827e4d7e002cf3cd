// main.go

package main

import (
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/cmd"
	"github.com/groundworklabs/groundwork/pkg/logger"
	"github.com/groundworklabs/groundwork/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()

	if err := telemetry.Init("groundwork"); err != nil {
		logger.L().Warn("Telemetry disabled", zap.Error(err))
	}

	cmd.Execute()
}
