// Package translator converts GLSL ES 3.00 pass sources to the desktop GLSL
// dialect, so presets written for GLES run on a desktop core context.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goshaderpreset/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", initErr)
	}
	return translator, nil
}

// Result is one translated stage.
type Result struct {
	Code string
	// Names maps declared identifiers (uniforms, attributes) to the names
	// used in Code.
	Names map[string]string
}

// MappedName returns the name of identifier in the translated code, or
// identifier itself when it was not renamed.
func (r Result) MappedName(identifier string) string {
	if n, ok := r.Names[identifier]; ok && n != "" {
		return n
	}
	return identifier
}

// NeedsTranslation reports whether a stage source has to be translated to
// run on a context of the given flavor. Only ES sources on desktop contexts
// are translated.
func NeedsTranslation(source string, isGLES bool) bool {
	return !isGLES && shader.IsESSL(source)
}

// Translate converts one ESSL 3.00 stage to GLSL 4.10.
func Translate(stage shader.Stage, source string) (Result, error) {
	t, err := GetTranslator()
	if err != nil {
		return Result{}, err
	}
	out, err := t.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return Result{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	res := Result{Code: out.Code, Names: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		res.Names[name] = v.MappedName
	}
	return res, nil
}
