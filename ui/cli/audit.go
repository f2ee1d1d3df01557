// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/createch/internal/config"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/internal/store"
)

// openStore opens the local database without starting a session.
func openStore() (*store.Store, error) {
	st, err := store.Open(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return nil, errors.New(i18n.T("config.error_init_db", err))
	}
	return st, nil
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the local audit log of sign-in attempts",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			entries, err := st.ListAuditLog(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TIME\tUSER\tACTION\tDETAILS")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Username, e.Action, e.Details)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the audit log as zstd-compressed JSON lines",
		Long: `Writes every audit entry, oldest first, as one JSON object per line
into a Zstandard-compressed file. '.zst' is appended to the name if missing.
Without -o the file is named createch-audit-YYYY-MM-DD.jsonl.zst.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("createch-audit-%s.jsonl.zst", time.Now().Format("2006-01-02"))
			} else if !strings.HasSuffix(output, ".zst") {
				output += ".zst"
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("could not create %s: %w", output, err)
			}
			n, err := st.ExportAuditLog(cmd.Context(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			logging.Debugf("exported %d audit entries", n)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.audit_exported", n, output))
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file")

	cmd.AddCommand(listCmd, exportCmd)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the createch configuration file",
	}

	var system bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to createch.yaml",
		Long: `Writes the effective configuration (defaults, file, .env, environment
and flags merged) as YAML to the user config directory, or to the system
directory with --system.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteConfigFile(&appConfig, system)
			if err != nil {
				return fmt.Errorf("could not write config: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.wrote_config", path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, "Write the system-wide file instead of the user file")

	cmd.AddCommand(initCmd)
	return cmd
}
