package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"DecodingDen/internal/export"
	dnet "DecodingDen/internal/net"
	"DecodingDen/internal/render"
	"DecodingDen/internal/state"
)

var joinCmd = &cobra.Command{
	Use:   "join [link]",
	Short: "Watch a board shared on the local network",
	Long: `Opens a read-only window that follows a shared board.

Example:
  decodingden join decodingden://192.168.1.20:8888`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd.Context(), args[0])
	},
}

var (
	renderPNG   string
	renderPDF   string
	renderTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render [board.json]",
	Short: "Render a saved board to PNG and/or PDF without opening a window",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List boards being shared on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscover(cmd.Context(), cmd)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderPNG, "png", "", "write a PNG to this path")
	renderCmd.Flags().StringVar(&renderPDF, "pdf", "", "write a PDF to this path")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "caption for the export (default: file name)")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 3*time.Second, "how long to listen for boards")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderPNG == "" && renderPDF == "" {
		return fmt.Errorf("nothing to do: pass --png and/or --pdf")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read board: %w", err)
	}
	strokes, err := state.DecodeStrokes(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	title := renderTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	img := render.Render(strokes, cfg.BoardWidth, cfg.BoardHeight).Image()

	if renderPNG != "" {
		if err := export.PNGFile(renderPNG, img, title); err != nil {
			return err
		}
		logger.Info().Str("path", renderPNG).Int("strokes", len(strokes)).Msg("wrote PNG")
	}
	if renderPDF != "" {
		if err := export.PDFFile(renderPDF, img, title); err != nil {
			return err
		}
		logger.Info().Str("path", renderPDF).Int("strokes", len(strokes)).Msg("wrote PDF")
	}
	return nil
}

func runDiscover(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	found := 0
	err := dnet.Browse(ctx, discoverTimeout, func(h dnet.Host) {
		found++
		fmt.Fprintf(out, "%s\t%s\n", h.Name, dnet.LinkScheme+h.Addr)
	})
	if err != nil {
		return fmt.Errorf("failed to browse for boards: %w", err)
	}
	if found == 0 {
		fmt.Fprintln(out, "no shared boards found")
	}
	return nil
}
