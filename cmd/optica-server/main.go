package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/optica/optica/internal/config"
	"github.com/optica/optica/internal/domain/patient"
	"github.com/optica/optica/internal/domain/receta"
	"github.com/optica/optica/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "optica-server",
		Short: "Optical clinic administration API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(recetaCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns, Schema: cfg.DBSchema}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// openMigrator loads the config and returns a migrator for the schema and
	// directory given by flags, falling back to DB_SCHEMA and MIGRATIONS_DIR.
	openMigrator := func(cmd *cobra.Command, ctx context.Context) (*db.Migrator, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		schema, _ := cmd.Flags().GetString("schema")
		if schema == "" {
			schema = cfg.DBSchema
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.MigrationsDir
		}

		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, nil, err
		}
		return db.NewMigrator(pool, os.DirFS(dir), schema), pool.Close, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closePool, err := openMigrator(cmd, ctx)
			if err != nil {
				return err
			}
			defer closePool()

			target, _ := cmd.Flags().GetInt("to")
			count, err := migrator.UpTo(ctx, target)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema (default DB_SCHEMA)")
	upCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	upCmd.Flags().Int("to", 0, "Stop after this version (0 applies all)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closePool, err := openMigrator(cmd, ctx)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema (default DB_SCHEMA)")
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func recetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receta",
		Short: "Prescription utilities",
	}

	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write the PDF of a prescription to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			idStr, _ := cmd.Flags().GetString("id")
			id, err := uuid.Parse(idStr)
			if err != nil {
				return fmt.Errorf("--id must be a prescription uuid: %w", err)
			}
			out, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger()

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolConfig(cfg))
			if err != nil {
				return err
			}
			defer pool.Close()

			patients := patient.NewService(patient.NewRepoPG(pool), logger)
			recetas := receta.NewService(receta.NewRepoPG(pool), logger)

			path, err := writePrescriptionPDF(ctx, recetas, patients, receta.NewGenerator(pdfHeader(cfg)), id, out)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	pdfCmd.Flags().String("id", "", "Prescription id")
	pdfCmd.Flags().String("out", ".", "Output directory")
	_ = pdfCmd.MarkFlagRequired("id")
	cmd.AddCommand(pdfCmd)

	return cmd
}

func pdfHeader(cfg *config.Config) receta.Header {
	return receta.Header{
		ClinicName: cfg.ClinicName,
		Tagline:    cfg.ClinicTagline,
		Contact:    cfg.ClinicContact,
		Disclaimer: cfg.ClinicDisclaimer,
	}
}

// writePrescriptionPDF renders prescription id into dir under its derived
// file name and returns the path written.
func writePrescriptionPDF(ctx context.Context, recetas *receta.Service, patients receta.PatientGetter, gen *receta.Generator, id uuid.UUID, dir string) (string, error) {
	rc, err := recetas.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load receta %s: %w", id, err)
	}
	p, err := patients.Get(ctx, rc.PacienteID)
	if err != nil {
		return "", fmt.Errorf("load paciente %s: %w", rc.PacienteID, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, receta.Filename(rc, p))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := gen.Write(f, rc, p); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
