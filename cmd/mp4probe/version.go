package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mp4probe/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			fmt.Println("mp4probe", info.Version)
			if info.Commit != "" {
				fmt.Println("commit:", info.Commit)
			}
			if info.BuildTime != "" {
				fmt.Println("built:", info.BuildTime)
			}
			return nil
		},
	}
}
