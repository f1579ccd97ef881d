package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"inventory-manager/feature/integrity"
	"inventory-manager/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the inventory data",
	Long:  `Checks the inventory tables against their models and the snapshot object in storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// tablesCmd represents the integrity tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Check the inventory tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// snapshotCheckCmd represents the integrity snapshot command
var snapshotCheckCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Check and fix the snapshot bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

// branchCmd represents the integrity branch command
var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Check the inventory data of a branch",
	Long:  `Lists records and assignments that make variant resolution fall back to low confidence. Outputs metrics by default or detailed JSON with --json flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()
		jsonOutput, _ := cmd.Flags().GetBool("json")
		branchID, _ := cmd.Flags().GetInt64("branch")

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := newIntegrityService(rt)
		rt.logger.Info("Checking branch data...", zap.Int64("branch", branchID))
		report, err := svc.CheckBranch(ctx, branchID)
		if err != nil {
			return fmt.Errorf("branch data check failed: %w", err)
		}

		counts := make(map[string]int)
		for _, is := range report.Issues {
			counts[is.Kind]++
		}

		if jsonOutput {
			filename := fmt.Sprintf("integrity_branch_%d_%d.json", branchID, time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			rt.logger.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("issues", len(report.Issues)))
		}

		fmt.Println("\n=== Branch Data Metrics ===")
		fmt.Printf("Branch: %d\n", report.BranchID)
		fmt.Printf("Products: %d\n", report.Products)
		fmt.Printf("Records: %d\n", report.Records)
		for _, kind := range []string{"untagged_record", "mis_tagged_record", "missing_first_assignment", "low_confidence", "unknown_product"} {
			fmt.Printf("%s: %d\n", kind, counts[kind])
		}
		fmt.Printf("Degraded Products: %d\n", len(report.Degraded))
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		rt.logger.Info("Branch data check completed",
			zap.Int64("branch", report.BranchID),
			zap.String("status", report.Status),
			zap.Int("issues", len(report.Issues)),
			zap.Duration("execution_time", time.Since(startTime)),
		)
		return nil
	},
}

// driftCmd represents the integrity drift command
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare the database with the snapshot export",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := newIntegrityService(rt).CheckDrift(cmd.Context())
		if err != nil {
			return fmt.Errorf("drift check failed: %w", err)
		}
		if report.Summary.InSync() {
			rt.logger.Info("Snapshot is in sync with the database.", zap.Int("records", report.Summary.Total))
			return nil
		}
		for _, r := range report.Drifted {
			rt.logger.Warn("Drifted record",
				zap.String("id", r.Key),
				zap.String("status", r.Status()),
				zap.Strings("mismatch", r.Mismatch))
		}
		rt.logger.Warn("Snapshot drift detected. Run 'snapshot export' to refresh it.",
			zap.Int("missing", report.Summary.MissingSnapshot),
			zap.Int("stale", report.Summary.Stale),
			zap.Int("mismatched", report.Summary.Mismatched))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(tablesCmd, snapshotCheckCmd, branchCmd, driftCmd)

	snapshotCheckCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
	branchCmd.Flags().Int64("branch", 0, "Branch ID")
	branchCmd.Flags().Bool("json", false, "Save a detailed JSON report")
	_ = branchCmd.MarkFlagRequired("branch")
}

// newIntegrityService wires the integrity checks. Drift detection needs both
// the database and the snapshot object.
func newIntegrityService(rt *runtime) *integrity.Service {
	svc := integrity.NewService(rt.db, rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Storage.SnapshotObject,
		rt.backend, rt.cfg.Engine.EnrichmentBatchSize, rt.logger)
	if rt.repo != nil && rt.storage != nil {
		snapshots := rt.snapshots
		if snapshots == nil {
			snapshots = inventory.NewSnapshotStore(rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Storage.SnapshotObject)
		}
		svc.WithDrift(rt.repo, snapshots)
	}
	return svc
}

func runIntegrityChecks(ctx context.Context, runTables, runSnapshot bool) error {
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger
	svc := newIntegrityService(rt)

	if runTables {
		logg.Info("Checking inventory tables...", zap.String("driver", rt.cfg.Database.Driver))
		report, err := svc.CheckTables()
		if err != nil {
			logg.Error("Tables check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Inventory tables match the models.")
		} else {
			logg.Warn("Table mismatches found")
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runSnapshot {
		logg.Info("Checking snapshot object...")
		report, err := svc.CheckSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("snapshot check failed: %w", err)
		}

		switch {
		case !report.BucketExists && fixFlag:
			logg.Info("Creating missing bucket...", zap.String("bucket", report.Bucket))
			if err := svc.FixBucket(ctx); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
		case !report.BucketExists:
			logg.Warn("Snapshot bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
		case !report.Present:
			logg.Warn("Snapshot object is missing. Run 'snapshot export' to create it.", zap.String("object", report.Object))
		default:
			logg.Info("Snapshot is present.",
				zap.Int64("size", report.Size),
				zap.Time("last_modified", report.LastModified))
		}
	}
	return nil
}
