package cmd

import (
	"errors"
	"fmt"

	"inventory-manager/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// snapshotCmd groups the snapshot commands.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the inventory snapshot in object storage",
}

// exportCmd writes the database contents to the snapshot object.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory database to the snapshot object",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		if rt.repo == nil {
			return errors.New("snapshot export requires a database connection")
		}
		if rt.storage == nil {
			return errors.New("snapshot export requires a storage client")
		}

		bucket, object := rt.cfg.Storage.Bucket, rt.cfg.Storage.SnapshotObject
		snap, err := inventory.ExportSnapshot(cmd.Context(), rt.repo, rt.storage, bucket, object)
		if err != nil {
			return fmt.Errorf("snapshot export failed: %w", err)
		}

		rt.logger.Info("Snapshot exported",
			zap.String("bucket", bucket),
			zap.String("object", object),
			zap.Int("products", len(snap.Products)),
			zap.Int("links", len(snap.Links)),
			zap.Int("assignments", len(snap.Assignments)),
			zap.Int("records", len(snap.Records)),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(exportCmd)
}
