package main

import (
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/cage1016/aidevops-demo/pkg/canary"
)

func main() {
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	if err := canary.Check(); err != nil {
		level.Error(logger).Log("check", "canary", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("check", "canary", "result", "passed")
}
