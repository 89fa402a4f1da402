/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/lexdrill/internal/adapter/repository"
	"github.com/eslsoft/lexdrill/internal/infrastructure/config"
	"github.com/eslsoft/lexdrill/internal/infrastructure/database"
)

// dbInitCmd creates the progress schema and validates the dictionary file.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize the progress database schema",
	Long:  "Creates the word_progress table when missing and checks that the configured dictionary loads. Note: go-sqlite3 needs CGO_ENABLED=1.",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipDict, _ := cmd.Flags().GetBool("schema-only")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			if cleanup != nil {
				cleanup()
			}
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		store := repository.NewSQLProgressStore(db, cfg.Database.Driver)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("progress schema ready")

		if skipDict {
			return nil
		}
		words, err := repository.NewJSONWordStore(cfg.Dictionary.Path)
		if err != nil {
			return fmt.Errorf("dictionary check failed: %w", err)
		}
		fmt.Printf("dictionary ok: %d words\n", words.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().Bool("schema-only", false, "skip the dictionary load check")
}
