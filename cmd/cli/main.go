package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wadjakorntonsri/go-site-directory/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		CreateAdmin commands.CreateAdminCmd `cmd:"" help:"Create a back office admin account"`
		Export      commands.ExportCmd      `cmd:"" help:"Export the catalog as JSON to stdout"`
		Import      commands.ImportCmd      `cmd:"" help:"Import a catalog JSON export"`
		Debug       bool                    `help:"Enable debug mode."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("directory"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
