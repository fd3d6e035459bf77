package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	menuHandler "menu-planner/internal/api/handlers/menu"
	"menu-planner/internal/core/planner"
	"menu-planner/internal/pkg/common"

	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Generate a new weekly menu",
	Long:  `Generates a menu for seven days and prints it together with its shopping list.`,
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

var showCmd = &cobra.Command{
	Use:   "show [menu-id]",
	Short: "Show a generated menu",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var replaceCmd = &cobra.Command{
	Use:   "replace [menu-id] [day]",
	Short: "Pick another recipe for one day (0 = first day)",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplace,
}

var clearCmd = &cobra.Command{
	Use:   "clear [menu-id] [day]",
	Short: "Empty one day of a menu",
	Args:  cobra.ExactArgs(2),
	RunE:  runClear,
}

var shoppingCmd = &cobra.Command{
	Use:   "shopping [menu-id]",
	Short: "Print the shopping list of a menu",
	Args:  cobra.ExactArgs(1),
	RunE:  runShopping,
}

var recipeCmd = &cobra.Command{
	Use:   "recipe [recipe-id]",
	Short: "Print a recipe scaled to the requested servings",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipe,
}

var (
	includePantry bool
	skipShopping  bool
	servings      int
)

func init() {
	weekCmd.Flags().BoolVar(&skipShopping, "no-shopping", false, "Do not print the shopping list")
	weekCmd.Flags().BoolVar(&includePantry, "include-pantry", false, "Keep pantry items on the shopping list")
	shoppingCmd.Flags().BoolVar(&includePantry, "include-pantry", false, "Keep pantry items on the shopping list")
	recipeCmd.Flags().IntVar(&servings, "servings", 4, "Servings to scale to (0 keeps the original amounts)")

	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(shoppingCmd)
	rootCmd.AddCommand(recipeCmd)
}

func runWeek(cmd *cobra.Command, _ []string) error {
	c := newClient()
	ctx := cmd.Context()

	menu, err := c.GenerateMenu(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), menu)
	}
	printMenu(cmd.OutOrStdout(), menu)

	if skipShopping {
		return nil
	}
	list, err := c.ShoppingList(ctx, menu.ID, !includePantry)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	printShopping(cmd.OutOrStdout(), list)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	menu, err := newClient().Menu(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), menu)
	}
	printMenu(cmd.OutOrStdout(), menu)
	return nil
}

func runReplace(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args[1])
	if err != nil {
		return err
	}

	resp, err := newClient().ReplaceDay(cmd.Context(), args[0], day)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	if !resp.Changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No alternative recipe available, menu unchanged.")
	}
	printMenu(cmd.OutOrStdout(), &resp.Menu)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args[1])
	if err != nil {
		return err
	}

	menu, err := newClient().ClearDay(cmd.Context(), args[0], day)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), menu)
	}
	printMenu(cmd.OutOrStdout(), menu)
	return nil
}

func runShopping(cmd *cobra.Command, args []string) error {
	list, err := newClient().ShoppingList(cmd.Context(), args[0], !includePantry)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), list)
	}
	printShopping(cmd.OutOrStdout(), list)
	return nil
}

func runRecipe(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid recipe id %q", args[0])
	}

	r, err := newClient().Recipe(cmd.Context(), id, servings)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), r)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d)\n\n", r.Title, r.Servings)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "  - %s %s %s\n", ing.Quantity, ing.Unit, ing.Name)
	}
	fmt.Fprintln(out)
	for i, step := range r.Steps {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}
	return nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 0 || day >= planner.Days {
		return 0, fmt.Errorf("day must be between 0 and %d, got %q", planner.Days-1, s)
	}
	return day, nil
}

func printMenu(w io.Writer, menu *menuHandler.MenuResponse) {
	fmt.Fprintf(w, "Menu %s\n", menu.ID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range menu.Days {
		title := "-"
		id := ""
		if d.Recipe != nil {
			title = d.Recipe.Title
			id = strconv.FormatInt(d.Recipe.ID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Day, d.Name, title, id)
	}
	_ = tw.Flush()

	diag := menu.Diagnostics
	if diag.Target > 0 {
		fmt.Fprintf(w, "Vegetables: %d/%d\n", diag.VegetableCount, diag.Target)
	}
}

func printShopping(w io.Writer, list *menuHandler.ShoppingListResponse) {
	fmt.Fprintf(w, "Shopping list (%d servings)\n", list.TargetServings)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, item := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", strconv.FormatFloat(item.Quantity, 'f', -1, 64), item.Unit, item.Name)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	data, err := common.ToIndentedJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
