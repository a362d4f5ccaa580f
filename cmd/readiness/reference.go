// cmd/readiness/reference.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/database"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

func newReferenceCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Validate, export and seed reference data",
	}
	cmd.AddCommand(
		newReferenceValidateCmd(),
		newReferenceExportCmd(),
		newReferenceSeedCmd(root, nil),
	)
	return cmd
}

func newReferenceValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a reference document against the schema and weight invariants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readDocument(path)
			if err != nil {
				return err
			}
			catalog, err := reference.NewCatalog(reference.SourceFile+":"+path, doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reference %s is valid: %d majors, %d institutions.\n",
				catalog.Version(), len(catalog.Majors()), len(catalog.Institutions()))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Path to the reference document (.json, .yaml)")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newReferenceExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in reference tables as an editable document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := encodeDocument(out, reference.Builtin())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file; YAML unless it ends in .json (default stdout)")
	return cmd
}

// dbOpener lets tests substitute a mock pool.
type dbOpener func(url string) (*sql.DB, func() error, error)

type seedOptions struct {
	path        string
	dbURL       string
	skipMigrate bool
	open        dbOpener
}

func newReferenceSeedCmd(root *rootOptions, open dbOpener) *cobra.Command {
	opts := &seedOptions{open: open}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a reference document into the postgres reference tables",
		Long: "Creates the reference tables if needed and replaces their contents with the " +
			"document in one transaction. The connection comes from --db-url, DATABASE_URL " +
			"or the database.postgres section of the config.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.path, "path", "", "Path to the reference document (.json, .yaml)")
	cmd.Flags().StringVar(&opts.dbURL, "db-url", "", "Postgres connection URL (overrides DATABASE_URL)")
	cmd.Flags().BoolVar(&opts.skipMigrate, "skip-migrate", false, "Do not create the reference tables")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func runSeed(cmd *cobra.Command, root *rootOptions, opts *seedOptions) error {
	doc, err := readDocument(opts.path)
	if err != nil {
		return err
	}

	db, closeDB, err := openSeedDB(root, opts)
	if err != nil {
		return err
	}
	defer closeDB() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	if !opts.skipMigrate {
		if err := reference.Migrate(ctx, db); err != nil {
			return err
		}
	}
	if err := reference.Seed(ctx, db, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded reference %s: %d majors, %d institutions.\n",
		doc.Version, len(doc.Majors), len(doc.Institutions))
	return nil
}

func openSeedDB(root *rootOptions, opts *seedOptions) (*sql.DB, func() error, error) {
	url := opts.dbURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if opts.open != nil {
		return opts.open(url)
	}

	var (
		pg  *database.PostgresClient
		err error
	)
	if url != "" {
		pg, err = database.NewPostgresURL(url)
	} else {
		cfg, cfgErr := root.loadConfig()
		if cfgErr != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", cfgErr)
		}
		if cfg.Database.Postgres.Host == "" {
			return nil, nil, fmt.Errorf("no database: pass --db-url, set DATABASE_URL or configure database.postgres")
		}
		pg, err = database.NewPostgres(cfg.Database.Postgres)
	}
	if err != nil {
		return nil, nil, err
	}
	return pg.SQL(), pg.Close, nil
}

func readDocument(path string) (*reference.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference document: %w", err)
	}
	return reference.DecodeDocument(path, data)
}

func encodeDocument(path string, doc *reference.Document) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode reference document: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reference document: %w", err)
	}
	return data, nil
}
