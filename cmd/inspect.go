package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/richinsley/goshaderpreset/preset"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <preset>",
	Short: "List the passes, lookup textures and parameters of a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		factory := preset.NewDefaultFactory(afero.NewOsFs(), logger)
		var p preset.Preset
		if err := factory.LoadPreset(args[0], &p); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describePreset(p))
		return nil
	},
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func axisString(a shader.FboScaleAxis) string {
	if a.Type == shader.ScaleAbsolute {
		return fmt.Sprintf("%dpx", a.Abs)
	}
	factor := a.Scale
	if factor == 0 {
		factor = 1
	}
	return fmt.Sprintf("%gx %s", factor, a.Type)
}

func flagsString(p shader.Pass) string {
	var flags []string
	if p.Mipmap {
		flags = append(flags, "mipmap")
	}
	if p.Fbo.FloatFramebuffer {
		flags = append(flags, "float")
	}
	if p.Fbo.SRGBFramebuffer {
		flags = append(flags, "srgb")
	}
	return strings.Join(flags, ",")
}

// describePreset renders the preset as styled tables.
func describePreset(p preset.Preset) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d passes", p.Path, len(p.Passes))))
	b.WriteString("\n")

	passes := newTable("#", "shader", "filter", "wrap", "scale x", "scale y", "alias", "flags", "frame mod")
	luts := map[string]shader.Lut{}
	var lutOrder []string
	params := map[string]shader.Parameter{}
	var paramOrder []string
	for i, pass := range p.Passes {
		last := i == len(p.Passes)-1
		sx, sy := axisString(pass.Fbo.X), axisString(pass.Fbo.Y)
		if last {
			sx, sy = "viewport", "viewport"
		}
		mod := ""
		if pass.FrameCountMod > 0 {
			mod = strconv.FormatUint(uint64(pass.FrameCountMod), 10)
		}
		passes.Row(strconv.Itoa(i), filepath.Base(pass.SourcePath), pass.Filter.String(), pass.Wrap.String(),
			sx, sy, pass.Alias, flagsString(pass), mod)

		for _, l := range pass.Luts {
			if _, ok := luts[l.ID]; !ok {
				luts[l.ID] = l
				lutOrder = append(lutOrder, l.ID)
			}
		}
		for _, param := range pass.Parameters {
			if _, ok := params[param.ID]; !ok {
				params[param.ID] = param
				paramOrder = append(paramOrder, param.ID)
			}
		}
	}
	b.WriteString(passes.Render())
	b.WriteString("\n")

	if len(lutOrder) > 0 {
		t := newTable("texture", "path", "filter", "wrap", "mipmap")
		for _, id := range lutOrder {
			l := luts[id]
			t.Row(id, l.Path, l.Filter.String(), l.Wrap.String(), strconv.FormatBool(l.Mipmap))
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if len(paramOrder) > 0 {
		t := newTable("parameter", "description", "value", "min", "max", "step")
		for _, id := range paramOrder {
			prm := params[id]
			t.Row(id, prm.Description,
				strconv.FormatFloat(float64(prm.Current), 'g', -1, 32),
				strconv.FormatFloat(float64(prm.Minimum), 'g', -1, 32),
				strconv.FormatFloat(float64(prm.Maximum), 'g', -1, 32),
				strconv.FormatFloat(float64(prm.Step), 'g', -1, 32))
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
