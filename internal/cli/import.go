package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/database/sqlite"
	"menu-planner/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import recipe JSON files into the recipe database",
	Long: `Reads every *.json file in dir (or a single file) and writes the recipes
straight into the SQLite database. Files may hold one recipe or {"recipes": [...]}.
Recipes already in the database are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var dbPath string

func init() {
	importCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to DATABASE_PATH / config)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := dbPath
	if path == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		path = cfg.Database.Path
	}

	files, err := jsonFiles(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json files found in %s", args[0])
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := recipe.NewImporter(store)
	total := recipe.ImportResult{}
	out := cmd.OutOrStdout()

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		res, err := importer.Import(cmd.Context(), data, filepath.Base(file))
		if err != nil {
			if common.IsValidationError(err) {
				common.LogWarn("無法解析的檔案，略過", zap.String("file", file), zap.Error(err))
				fmt.Fprintf(out, "%s: %v\n", filepath.Base(file), err)
				continue
			}
			return err
		}

		total.Inserted += res.Inserted
		total.Duplicates += res.Duplicates
		total.Skipped += res.Skipped
		total.Titles = append(total.Titles, res.Titles...)
	}

	if asJSON {
		return printJSON(out, total)
	}
	for _, title := range total.Titles {
		fmt.Fprintf(out, "+ %s\n", title)
	}
	fmt.Fprintf(out, "imported: %d, duplicates: %d, skipped: %d\n", total.Inserted, total.Duplicates, total.Skipped)
	return nil
}

// jsonFiles 目錄內的 .json 檔（排序後）；path 為檔案時直接回傳
func jsonFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
