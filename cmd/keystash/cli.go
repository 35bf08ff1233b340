package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
	"github.com/keystash/keystash/internal/ops"
	"github.com/keystash/keystash/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(store *db.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "keystash",
		Usage:   "Local keystroke capture store",
		Version: Version,
		Commands: []*cli.Command{
			saveCmd(store, cfg),
			recentCmd(store, cfg),
			appsCmd(store, cfg),
			getCmd(store, cfg),
			searchCmd(store, cfg),
			statsCmd(store, cfg),
			rebuildCmd(store, cfg),
			exportCmd(store, cfg),
			importCmd(store, cfg),
			webCmd(store, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// saveCmd creates the save command.
func saveCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a capture (reads content from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Required: true, Usage: "Application name"},
			&cli.Int64Flag{Name: "start", Usage: "Interval start (Unix timestamp, default: now)"},
			&cli.Int64Flag{Name: "end", Usage: "Interval end (Unix timestamp, default: start)"},
		},
		Action: func(c *cli.Context) error {
			content := ""
			if stdinHasData() {
				var err error
				content, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			output, err := ops.Save(c.Context, store, cfg, ops.SaveInput{
				AppName:   c.String("app"),
				Content:   content,
				StartTime: c.Int64("start"),
				EndTime:   c.Int64("end"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List the newest captures",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Usage: "Restrict to one application"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return (default 50)"},
		},
		Action: func(c *cli.Context) error {
			if app := c.String("app"); app != "" {
				output, err := ops.ByApp(c.Context, store, cfg, ops.ByAppInput{
					AppName: app,
					Limit:   c.Int("limit"),
				})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := ops.Recent(c.Context, store, cfg, ops.RecentInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// appsCmd creates the apps command.
func appsCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "apps",
		Usage: "List applications with capture counts",
		Action: func(c *cli.Context) error {
			output, err := ops.Apps(c.Context, store, cfg)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a capture by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return outputError(errors.NewInvalidRequest("id must be an integer"))
			}

			output, err := ops.Get(c.Context, store, cfg, ops.GetInput{ID: id})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search captures (indexed match with fuzzy fallback)",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Usage: "Restrict to one application"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum results (default 50)"},
			&cli.Float64Flag{Name: "min-score", Usage: "Fuzzy-match cutoff in [0,1] (default 0.3)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SearchInput{
				Query: strings.Join(c.Args().Slice(), " "),
				Limit: c.Int("limit"),
			}
			if app := c.String("app"); app != "" {
				input.AppName = &app
			}
			if c.IsSet("min-score") {
				minScore := c.Float64("min-score")
				input.MinScore = &minScore
			}

			output, err := ops.Search(c.Context, store, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show the aggregate capture snapshot",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, store, cfg)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// rebuildCmd creates the rebuild command.
func rebuildCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "rebuild",
		Usage: "Rebuild the full-text index from stored captures",
		Action: func(c *cli.Context) error {
			output, err := ops.Rebuild(c.Context, store, cfg)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export captures to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.keystash/exports/<app>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Usage: "Only export captures for this application"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path: c.String("path"),
			}
			if app := c.String("app"); app != "" {
				input.AppName = &app
			}

			output, err := ops.Export(c.Context, store, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import captures from a JSONL export file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, store, cfg, ops.ImportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(store *db.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the browse UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.Web.Bind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.Web.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(store, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if stashErr, ok := err.(*errors.StashError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", stashErr.Code, stashErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
