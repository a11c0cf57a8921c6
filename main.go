// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"

	"github.com/AccelByte/extend-struggle-engine/internal/app"
	"github.com/AccelByte/extend-struggle-engine/internal/config"
	"github.com/AccelByte/extend-struggle-engine/pkg/common"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infof("starting struggle engine service..")

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	common.SetupLogging(cfg.LogLevel, true)

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		logrus.Fatalf("application stopped with error: %v", err)
	}
}
