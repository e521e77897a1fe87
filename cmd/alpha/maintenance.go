package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/reports"
	"github.com/google/subcommands"
)

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display row counts and the schema version" }
func (*statsCmd) Usage() string {
	return `alpha stats

  Displays the number of rows in each table and the schema version.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	tables, err := a.container.DB.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	version, dirty, err := database.SchemaVersion(a.container.DB.Conn())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.printMarkdown(reports.StatsMarkdown(tables, version, dirty)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// backupCmd holds the flags for the 'backup' subcommand.
type backupCmd struct {
	output string
	remote bool
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write a consistent snapshot of the database" }
func (*backupCmd) Usage() string {
	return `alpha backup [-o <path>] [-remote]

  Without -o the snapshot goes to the configured backup directory.
  With -remote it is also uploaded to the configured S3 bucket.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Destination file (must not exist)")
	f.BoolVar(&c.remote, "remote", false, "Upload the snapshot to S3 as well")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if c.remote && a.container.RemoteBackups == nil {
		fmt.Fprintln(os.Stderr, "Error: -remote needs S3_BUCKET and credentials to be configured")
		return subcommands.ExitUsageError
	}

	var info *reliability.BackupInfo
	if c.output != "" {
		info, err = a.container.BackupService.BackupTo(ctx, c.output)
	} else {
		info, err = a.container.BackupService.CreateBackup(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Backup written to %s (%d bytes, sha256 %s)\n", info.Path, info.SizeBytes, info.Checksum)

	if c.remote {
		remote, err := a.container.RemoteBackups.Upload(ctx, *info)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error uploading backup: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Uploaded as %s\n", remote.Filename)
	}
	return subcommands.ExitSuccess
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	output   string
	live     bool
	exchange string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export every table to an xlsx workbook" }
func (*exportCmd) Usage() string {
	return `alpha export -o <file.xlsx> [-live] [-exchange <name>]

  Writes expenses, savings, trades and positions to one sheet each.
  With -live a Portfolio sheet with live prices and totals is added.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output workbook path")
	f.BoolVar(&c.live, "live", false, "Add a Portfolio sheet priced with live data")
	f.StringVar(&c.exchange, "exchange", "", "Exchange for crypto prices when -live is set")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.output == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	f, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := reports.ExportOptions{Live: c.live, Exchange: c.exchange}
	if err := a.container.Exporter.Export(ctx, f, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(c.output)
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Exported to %s\n", c.output)
	return subcommands.ExitSuccess
}
