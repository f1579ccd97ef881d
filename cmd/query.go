package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"inventory-manager/core/variant"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	categoryFlag  int64
	productFlag   int64
	branchFlag    int64
	selectFlag    []string
	modeFlag      string
	aggregateProduct int64
)

// schemaCmd prints the reconciled attribute schema of a product.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the attribute schema of a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		schema, err := rt.inventory.ReconcileSchema(cmd.Context(), categoryFlag, productFlag)
		if err != nil {
			return err
		}
		if len(schema.Degraded) > 0 {
			rt.logger.Warn("Schema built from partial data", zap.Strings("degraded", schema.Degraded))
		}
		return printJSON(schema)
	},
}

// resolveCmd resolves a selection to an inventory record.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a selection to an inventory record",
	Example: `  inventory-manager resolve --product 100 --branch 7 --select 1=12 --select 2=22`,
	RunE: func(cmd *cobra.Command, args []string) error {
		choices, err := parseSelection(selectFlag)
		if err != nil {
			return err
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		res, err := rt.inventory.Resolve(cmd.Context(), productFlag, branchFlag, variant.SelectionFrom(choices))
		if err != nil {
			return err
		}
		if res.LowConfidence {
			rt.logger.Warn("Low confidence resolution", zap.String("reason", string(res.Reason)))
		}
		return printJSON(res)
	},
}

// aggregateCmd prints the summary or detail rows of a branch.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate the inventory of a branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := variant.ParseMode(modeFlag)
		if err != nil {
			return err
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		var productID *int64
		if aggregateProduct > 0 {
			productID = &aggregateProduct
		}
		result, err := rt.inventory.Aggregate(cmd.Context(), branchFlag, productID, mode)
		if err != nil {
			return err
		}
		if len(result.Unenriched) > 0 {
			rt.logger.Warn("Some products were not enriched", zap.Int64s("products", result.Unenriched))
		}
		return printJSON(result)
	},
}

// parseSelection converts "type=value" pairs into choices.
func parseSelection(pairs []string) ([]variant.Choice, error) {
	choices := make([]variant.Choice, 0, len(pairs))
	for _, p := range pairs {
		typ, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid selection %q: expected type=value", p)
		}
		typeID, err := strconv.ParseInt(strings.TrimSpace(typ), 10, 64)
		if err != nil || typeID == 0 {
			return nil, fmt.Errorf("invalid attribute type in %q", p)
		}
		valueID, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil || valueID == 0 {
			return nil, fmt.Errorf("invalid attribute value in %q", p)
		}
		choices = append(choices, variant.Choice{TypeID: typeID, ValueID: valueID})
	}
	return choices, nil
}

func init() {
	RootCmd.AddCommand(schemaCmd, resolveCmd, aggregateCmd)

	schemaCmd.Flags().Int64Var(&categoryFlag, "category", 0, "Category ID (looked up from the product when omitted)")
	schemaCmd.Flags().Int64Var(&productFlag, "product", 0, "Product ID")
	_ = schemaCmd.MarkFlagRequired("product")

	resolveCmd.Flags().Int64Var(&productFlag, "product", 0, "Product ID")
	resolveCmd.Flags().Int64Var(&branchFlag, "branch", 0, "Branch ID")
	resolveCmd.Flags().StringArrayVar(&selectFlag, "select", nil, "Selected value as type=value, repeatable")
	_ = resolveCmd.MarkFlagRequired("product")
	_ = resolveCmd.MarkFlagRequired("branch")

	aggregateCmd.Flags().Int64Var(&branchFlag, "branch", 0, "Branch ID")
	aggregateCmd.Flags().Int64Var(&aggregateProduct, "product", 0, "Restrict to one product")
	aggregateCmd.Flags().StringVar(&modeFlag, "mode", string(variant.ModeSummary), "summary or detail")
	_ = aggregateCmd.MarkFlagRequired("branch")
}
