package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opengovern/quip-bridge/quip"
)

var (
	exportFormat string
	outputPath   string
)

// exporters maps --format values to client methods.
var exporters = map[string]func(*quip.Client, context.Context, string) ([]byte, error){
	"pdf":  (*quip.Client).ExportPDF,
	"docx": (*quip.Client).ExportDOCX,
	"xlsx": (*quip.Client).ExportXLSX,
}

var exportCmd = &cobra.Command{
	Use:   "export THREAD_ID",
	Short: "Export a thread as PDF, DOCX or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		export, ok := exporters[exportFormat]
		if !ok {
			return fmt.Errorf("unsupported format %q (want pdf, docx or xlsx)", exportFormat)
		}
		c, _, err := newClient()
		if err != nil {
			return err
		}
		data, err := export(c, cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputPath, data)
	},
}

var blobCmd = &cobra.Command{
	Use:   "blob THREAD_ID BLOB_ID",
	Short: "Download an image or attachment from a thread",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		data, err := c.GetBlob(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputPath, data)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "export format: pdf, docx or xlsx")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	blobCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(exportCmd, blobCmd)
}
