package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every migration file in POSTGRES_MIGRATIONS_DIR that has not run yet.

Applied files are recorded in the schema_migrations table, so running the
command twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap(cmd.Context(), "")
	if err != nil {
		return err
	}
	defer rt.close()

	if !rt.pg.Configured() {
		return errors.New("POSTGRES_DSN is required to run migrations")
	}
	return rt.migrate(cmd.Context())
}
