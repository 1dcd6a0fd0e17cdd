package renderer

import "github.com/richinsley/goshaderpreset/shader"

// ParametersFor returns the parameter values a pass binds: those declared
// by the preset whose identifier the pass source also names with a
// "parameter <id>" directive.
func ParametersFor(pass shader.Pass) map[string]float32 {
	params := make(map[string]float32)
	if len(pass.Parameters) == 0 {
		return params
	}
	current := make(map[string]float32, len(pass.Parameters))
	for _, p := range pass.Parameters {
		current[p.ID] = p.Current
	}
	for _, name := range shader.ParameterNames(pass.Source) {
		if v, ok := current[name]; ok {
			params[name] = v
		}
	}
	return params
}
