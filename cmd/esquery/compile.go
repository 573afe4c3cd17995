package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
	"github.com/kailas-cloud/esquery/internal/esdsl"
	searchuc "github.com/kailas-cloud/esquery/internal/usecase/search"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a filter or pipeline to an Elasticsearch request body without running it",
	}
	cmd.PersistentFlags().StringSlice("keyword-fields", nil, "fields that carry a keyword sub-field")
	cmd.PersistentFlags().String("keyword-suffix", "keyword", "keyword sub-field name")
	cmd.PersistentFlags().Int("default-limit", 20, "page size used when a filter sets no limit")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "query [file]",
			Short: "Compile a filter (reads stdin when file is omitted or -)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var f query.Filter
				if err := readJSON(cmd, args, &f); err != nil {
					return err
				}
				body, err := compileService(cmd).CompileQuery(f)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), body)
			},
		},
		&cobra.Command{
			Use:   "aggs [file]",
			Short: "Compile an aggregation pipeline {\"stages\": [...]} (reads stdin when file is omitted or -)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req struct {
					Stages aggregation.Pipeline `json:"stages"`
				}
				if err := readJSON(cmd, args, &req); err != nil {
					return err
				}
				body, err := compileService(cmd).CompileAggregation(req.Stages)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), body)
			},
		},
	)
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a saved search response into the bucket tree",
		Long: "Decode reads either a full search response or only its \"aggregations\" object " +
			"and prints the uniform bucket tree.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if err := readJSON(cmd, args, &raw); err != nil {
				return err
			}

			var envelope struct {
				Aggregations json.RawMessage `json:"aggregations"`
			}
			if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Aggregations) > 0 {
				raw = envelope.Aggregations
			}

			buckets, err := esdsl.DecodeAggregations(raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), buckets)
		},
	}
}

func compileService(cmd *cobra.Command) *searchuc.Service {
	fields, _ := cmd.Flags().GetStringSlice("keyword-fields")
	suffix, _ := cmd.Flags().GetString("keyword-suffix")
	limit, _ := cmd.Flags().GetInt("default-limit")

	return searchuc.New(nil, nil, fieldmap.Keyword(suffix, fields...), searchuc.Limits{DefaultLimit: limit})
}

func readJSON(cmd *cobra.Command, args []string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
