package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"aircheck/internal/deps"
	"aircheck/internal/services"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := []deps.Status{deps.CheckFFmpeg(cfg.Capture.FFmpegBinary)}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			allOK := true
			for _, status := range statuses {
				fmt.Fprintln(out, renderDepLine(status, colorize))
				if !status.Available && !status.Optional {
					allOK = false
				}
			}
			if !allOK {
				return services.Wrap(services.ErrExternalTool, "deps", "status", "missing required external tools", nil)
			}
			return nil
		},
	}
}

func renderDepLine(status deps.Status, colorize bool) string {
	label := "OK"
	color := ansiGreen
	detail := status.Command
	if !status.Available {
		label = "MISSING"
		color = ansiRed
		detail = status.Detail
	}
	line := fmt.Sprintf("  %-10s [%s] %s", status.Name+":", label, detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
