package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var pantryCmd = &cobra.Command{
	Use:   "pantry",
	Short: "List pantry items",
	Long:  `Pantry items are left off shopping lists. Without a subcommand the current list is printed.`,
	Args:  cobra.NoArgs,
	RunE:  runPantryList,
}

var pantrySetCmd = &cobra.Command{
	Use:   "set [item...]",
	Short: "Replace the pantry with the given items",
	RunE:  runPantrySet,
}

var pantryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default pantry",
	Args:  cobra.NoArgs,
	RunE:  runPantryReset,
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "List every ingredient name known to the recipe database",
	Args:  cobra.NoArgs,
	RunE:  runIngredients,
}

func init() {
	pantryCmd.AddCommand(pantrySetCmd)
	pantryCmd.AddCommand(pantryResetCmd)
	rootCmd.AddCommand(pantryCmd)
	rootCmd.AddCommand(ingredientsCmd)
}

func runPantryList(cmd *cobra.Command, _ []string) error {
	items, err := newClient().Pantry(cmd.Context())
	if err != nil {
		return err
	}
	return printList(cmd.OutOrStdout(), items)
}

func runPantrySet(cmd *cobra.Command, args []string) error {
	items, err := newClient().UpdatePantry(cmd.Context(), args)
	if err != nil {
		return err
	}
	return printList(cmd.OutOrStdout(), items)
}

func runPantryReset(cmd *cobra.Command, _ []string) error {
	items, err := newClient().ResetPantry(cmd.Context())
	if err != nil {
		return err
	}
	return printList(cmd.OutOrStdout(), items)
}

func runIngredients(cmd *cobra.Command, _ []string) error {
	names, err := newClient().Ingredients(cmd.Context())
	if err != nil {
		return err
	}
	return printList(cmd.OutOrStdout(), names)
}

func printList(w io.Writer, items []string) error {
	if asJSON {
		return printJSON(w, items)
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
	return nil
}
