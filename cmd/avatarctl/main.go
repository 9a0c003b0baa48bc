package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/avatar-backend/internal/cli"
	"github.com/yungbote/avatar-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "avatarctl:", err)
		stop()
		os.Exit(1)
	}
}
