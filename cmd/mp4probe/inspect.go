package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

type boxRow struct {
	Type          string `json:"type"`
	Offset        int64  `json:"offset"`
	PayloadLength int64  `json:"payload_length"`
	Large         bool   `json:"large,omitempty"`
	UUID          string `json:"uuid,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		scopePath string
		asJSON    bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "List the sibling boxes of a file or of a nested box",
		ArgsUsage: "<file>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"p"},
				Usage:       "descend into this box path before listing, e.g. moov",
				Destination: &scopePath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the listing as JSON",
				Destination: &asJSON,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, loadConfig(), nil)
			_, log := setupLogger(ctx)

			file := c.Args().First()
			if file == "" {
				return cli.Exit("usage: mp4probe inspect <file>", 2)
			}

			store, err := bmff.OpenFile(file)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			w, err := bmff.NewWindow(store)
			if err != nil {
				return err
			}
			if scopePath != "" {
				path, perr := bmff.ParseBoxPath(scopePath)
				if perr != nil {
					return perr
				}
				w, err = bmff.Find(w, path...)
				if err != nil {
					return err
				}
			}

			base := w.Offset()
			var rows []boxRow
			err = bmff.Walk(w, func(info bmff.BoxInfo) error {
				row := boxRow{
					Type:          info.Type.String(),
					Offset:        base + info.Offset,
					PayloadLength: info.PayloadLen,
					Large:         info.Large,
				}
				if info.UUID != nil {
					row.UUID = info.UUID.String()
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
			log.Debug("walk finished", "boxes", len(rows))

			if asJSON {
				b, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Printf("File: %s\n", file)
			if scopePath != "" {
				fmt.Printf("Scope: %s\n", scopePath)
			}
			for _, r := range rows {
				annot := ""
				if r.Large {
					annot += " large"
				}
				if r.UUID != "" {
					annot += " uuid=" + r.UUID
				}
				fmt.Printf("  %-4s off=%-12d len=%-12d%s\n", r.Type, r.Offset, r.PayloadLength, annot)
			}
			return nil
		},
	}
}
