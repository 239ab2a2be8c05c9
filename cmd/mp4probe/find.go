package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mp4probe/internal/boxes"
	"github.com/samcharles93/mp4probe/pkg/bmff"
)

func findCmd() *cli.Command {
	var (
		boxPath string
		uuidStr string
		asJSON  bool
	)

	return &cli.Command{
		Name:      "find",
		Usage:     "Locate a box by path or UUID and decode its payload",
		ArgsUsage: "<file>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "box",
				Aliases:     []string{"b"},
				Usage:       "slash-separated box path, e.g. moov/mvhd",
				Destination: &boxPath,
			},
			&cli.StringFlag{
				Name:        "uuid",
				Usage:       "128-bit extended box type in RFC 4122 form",
				Destination: &uuidStr,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the result as JSON",
				Destination: &asJSON,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, loadConfig(), nil)
			_, log := setupLogger(ctx)

			file := c.Args().First()
			if file == "" {
				return cli.Exit("usage: mp4probe find --box moov/mvhd <file>", 2)
			}
			if (boxPath == "") == (uuidStr == "") {
				return cli.Exit("exactly one of --box and --uuid is required", 2)
			}

			store, err := bmff.OpenFile(file)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			root, err := bmff.NewWindow(store)
			if err != nil {
				return err
			}

			var (
				sec  *bmff.Window
				last bmff.BoxType
			)
			if uuidStr != "" {
				u, err := uuid.Parse(uuidStr)
				if err != nil {
					return fmt.Errorf("uuid: %w", err)
				}
				last = bmff.TypeUUID
				sec, err = bmff.FindUUIDBox(root, u)
				if err != nil {
					return err
				}
			} else {
				path, err := bmff.ParseBoxPath(boxPath)
				if err != nil {
					return err
				}
				last = path[len(path)-1]
				sec, err = bmff.Find(root, path...)
				if err != nil {
					return err
				}
			}
			log.Debug("box located", "type", last.String(), "offset", sec.Offset(), "length", sec.Limit())

			var payload any
			if v, ok, derr := boxes.Decode(last, sec); derr != nil {
				log.Warn("payload decode failed", "type", last.String(), "error", derr)
			} else if ok {
				payload = v
			}

			if asJSON {
				out := map[string]any{
					"file":   file,
					"type":   last.String(),
					"offset": sec.Offset(),
					"length": sec.Limit(),
				}
				if payload != nil {
					out["payload"] = payload
				}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Printf("%s: %s at offset %d, %d payload bytes\n", file, last, sec.Offset(), sec.Limit())
			if payload != nil {
				b, err := json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
			}
			return nil
		},
	}
}
