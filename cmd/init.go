package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const stockPreset = `shaders = 1
shader0 = stock.glsl
filter_linear0 = false
scale_type0 = viewport
`

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Write a one-pass passthrough preset to start from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gles, _ := cmd.Flags().GetBool("gles")
		path, err := writeStockPreset(afero.NewOsFs(), args[0], gles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// writeStockPreset creates dir/stock.glslp and its pass source. Existing
// files are left untouched.
func writeStockPreset(fs afero.Fs, dir string, gles bool) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	files := []struct {
		name, content string
	}{
		{"stock.glsl", shader.StockPassthrough(gles)},
		{"stock.glslp", stockPreset},
	}
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if _, err := fs.Stat(p); err == nil {
			return "", fmt.Errorf("%s already exists", p)
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}
	for _, f := range files {
		if err := afero.WriteFile(fs, filepath.Join(dir, f.name), []byte(f.content), 0o644); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "stock.glslp"), nil
}
