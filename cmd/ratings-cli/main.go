package main

import (
	"context"

	"ratingsexporter/cmd/ratings-cli/commands"
	"ratingsexporter/lib/serviceutil"
	"ratingsexporter/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	err := telemetry.SetupFromEnv(ctx, "ratings-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
