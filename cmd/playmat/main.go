package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	cmd := &cli.Command{
		Name:    "playmat",
		Usage:   "Playmat layout editor: MCP/HTTP server and print renderer",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("PLAYMAT_CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			validateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the editor session behind MCP (stdio or streamable HTTP) and the HTTP API",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Usage: "Override the transport mode (http or stdio)",
			},
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a project document to PNG",
		ArgsUsage: "<document.json>",
		Action:    runRender,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output path (default: the project's image name next to the document)",
			},
			&cli.FloatFlag{
				Name:  "dpi",
				Usage: "Override the document's export DPI",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-render whenever the document changes",
			},
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a project document and list rejected fields",
		ArgsUsage: "<document.json>",
		Action:    runValidate,
	}
}

func documentArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one document path, got %d", cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}
