package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
	idsuc "github.com/kailas-cloud/taxodex/internal/usecase/ids"
)

func risCmd(flags *globalFlags) *cobra.Command {
	var noID bool

	cmd := &cobra.Command{
		Use:   "ris <file|->",
		Short: "Convert a RIS citation into a literature record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			lit, err := record.ParseRIS(string(data))
			if err != nil {
				return err //nolint:wrapcheck // sentinel errors are user-facing
			}

			if !noID {
				a, err := newApp(cmd.Context(), flags)
				if err != nil {
					return err
				}
				defer a.close()
				lit.ID = a.mintID(cmd.Context(), record.Literature)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(&lit) //nolint:wrapcheck // stdout write
		},
	}
	cmd.Flags().BoolVar(&noID, "no-id", false, "do not assign an identifier")
	return cmd
}

// mintID returns a fresh id, or "" when none could be allocated.
func (a *app) mintID(ctx context.Context, kind record.Kind) string {
	if a.remote != nil {
		return a.remote.GenerateID(ctx, kind)
	}
	id, err := idsuc.New(a.allocator()).Generate(ctx, kind)
	if err != nil {
		a.logger.Warn("id generation failed", zap.String("collection", string(kind)), zap.Error(err))
		return ""
	}
	return id
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name) //nolint:gosec // user-supplied path is the point
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
