package preset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/spf13/afero"
)

// #pragma parameter ID "Description" initial minimum maximum [step]
var pragmaRe = regexp.MustCompile(`(?m)^[ \t]*#pragma[ \t]+parameter[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]+"([^"]*)"[ \t]+(\S+)[ \t]+(\S+)[ \t]+(\S+)(?:[ \t]+(\S+))?`)

// ParsePragmaParameters extracts the parameter declarations of a shader
// source. Declarations with unparsable numbers are skipped.
func ParsePragmaParameters(source string) []shader.Parameter {
	var params []shader.Parameter
	for _, m := range pragmaRe.FindAllStringSubmatch(source, -1) {
		var vals [4]float32
		ok := true
		for i, s := range m[3:7] {
			if s == "" {
				continue
			}
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				ok = false
				break
			}
			vals[i] = float32(f)
		}
		if !ok {
			continue
		}
		params = append(params, shader.Parameter{
			ID:          m[1],
			Description: m[2],
			Current:     vals[0],
			Initial:     vals[0],
			Minimum:     vals[1],
			Maximum:     vals[2],
			Step:        vals[3],
		})
	}
	return params
}

// resolvePath interprets p relative to the directory of the preset file.
func resolvePath(presetPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(presetPath), filepath.FromSlash(p))
}

// finalize reads every pass source, gathers the parameter declarations of all
// passes, applies overrides clamped to their range, and hands every pass the
// full LUT and parameter lists. Filtering per pass happens at render setup.
func finalize(fs afero.Fs, passes []shader.Pass, luts []shader.Lut, overrides map[string]float32) error {
	var params []shader.Parameter
	seen := make(map[string]struct{})

	for i := range passes {
		if passes[i].SourcePath == "" {
			return fmt.Errorf("pass %d has no shader path", i)
		}
		src, err := afero.ReadFile(fs, passes[i].SourcePath)
		if err != nil {
			return fmt.Errorf("pass %d: failed to read shader source: %w", i, err)
		}
		passes[i].Source = string(src)

		for _, p := range ParsePragmaParameters(passes[i].Source) {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			params = append(params, p)
		}
	}

	for i := range params {
		if v, ok := overrides[params[i].ID]; ok {
			params[i].Current = v
		}
		params[i].Clamp()
	}

	for i := range passes {
		passes[i].Luts = append([]shader.Lut(nil), luts...)
		passes[i].Parameters = append([]shader.Parameter(nil), params...)
	}
	return nil
}
