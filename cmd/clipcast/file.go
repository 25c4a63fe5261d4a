package main

import (
	"context"
	"fmt"

	"clipcast/cmd/clipcast/cli"
	"clipcast/internal/errors"
	"clipcast/internal/selection"
	"clipcast/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newFileCmd uploads files and encodes the download link
func newFileCmd(e *env) *cobra.Command {
	var (
		exclude []string
		pngPath string
	)

	cmd := &cobra.Command{
		Use:   "file PATH|GLOB...",
		Short: "Upload files and encode the download link",
		Long: `Upload files to the temporary file host and print a QR code of the link.

One file is sent as is. Several files are packed into one zip archive first.
Globs are expanded by clipcast, so quote them to include subdirectories:

  clipcast file 'docs/**.md' --exclude '*.draft.md'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cli.NewPrinter(cmd.OutOrStdout(), e.theme)
			status := cli.NewPrinter(cmd.ErrOrStderr(), e.theme)

			entries, err := selection.Load(args, selection.Options{
				Exclude:  append(append([]string(nil), e.cfg.Selection.Exclude...), exclude...),
				MaxBytes: e.cfg.Upload.MaxBytes,
			})
			if err != nil {
				return selectionError(err)
			}

			ctrl := e.controller()
			if err := ctrl.SelectFiles(entries); err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout := e.cfg.Timeout(); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			total := types.TotalSize(entries)
			status.Info(fmt.Sprintf("Uploading %d file(s), %s...", len(entries), humanize.IBytes(uint64(total))))
			if err := ctrl.UploadAndGenerateFileQR(ctx); err != nil {
				if msg := ctrl.Snapshot().FileError; msg != "" {
					return fmt.Errorf("%s (%w)", msg, err)
				}
				return err
			}

			snap := ctrl.Snapshot()
			if err := e.printQR(out, snap, pngPath); err != nil {
				return err
			}
			out.Success(snap.URL())
			if r := snap.Receipt; r != nil {
				out.Info(fmt.Sprintf("%s · %s", r.Filename, humanize.IBytes(uint64(r.Size))))
				out.Info("blake3 " + r.Digest)
			}
			if e.cfg.Upload.Notice != "" {
				status.Info(e.cfg.Upload.Notice)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Glob of files to leave out (repeatable)")
	cmd.Flags().StringVar(&pngPath, "png", "", "Also write the QR code as a PNG image to this path")

	return cmd
}

// selectionError adds a hint for failures the user can fix from the shell
func selectionError(err error) error {
	switch {
	case errors.IsFileNotFound(err):
		return fmt.Errorf("%w (check the path, and quote globs so clipcast expands them)", err)
	case errors.IsFileAccessDenied(err):
		return fmt.Errorf("%w (check the file permissions)", err)
	case errors.IsInvalidConfig(err):
		return fmt.Errorf("%w (fix the --exclude flag or selection.exclude)", err)
	}
	return err
}
