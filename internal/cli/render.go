package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yungbote/diabetes-app/internal/app"
	"github.com/yungbote/diabetes-app/internal/decisionpath"
)

func newRenderPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render-paths",
		Short: "Write the eight decision path images to a directory",
		RunE:  runRenderPaths,
	}
	cmd.Flags().String("out", filepath.Join("assets", "paths"), "Output directory")
	return cmd
}

func runRenderPaths(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := toolLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Always draw fresh images; the configured dir may be the output itself.
	assetsCfg := cfg.Assets
	assetsCfg.Dir = ""
	assetsCfg.Bucket = ""
	assetsCfg.RenderMissing = true

	svc, closeFn, err := app.NewAssetService(cmd.Context(), assetsCfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	for _, name := range decisionpath.Assets() {
		b, err := svc.Get(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		p := filepath.Join(outDir, name)
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
