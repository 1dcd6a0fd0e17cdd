package shader

import (
	"regexp"
	"strings"
)

// Stage identifies which half of a combined source is being compiled.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

func (s Stage) define() string {
	if s == StageVertex {
		return "VERTEX"
	}
	return "FRAGMENT"
}

var (
	parameterRe = regexp.MustCompile(`\bparameter\s+([A-Za-z_][A-Za-z0-9_]*)`)
	versionRe   = regexp.MustCompile(`(?m)^[ \t]*#version[^\n]*\n?`)
)

// ParameterNames returns the identifiers of every "parameter <id>" directive
// in source, in order of appearance and without duplicates.
func ParameterNames(source string) []string {
	matches := parameterRe.FindAllStringSubmatch(source, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Version returns the argument of the #version directive, or "" when the
// source has none.
func Version(source string) string {
	line := versionRe.FindString(source)
	if line == "" {
		return ""
	}
	line = strings.TrimSpace(line)
	return strings.TrimSpace(strings.TrimPrefix(line, "#version"))
}

// IsESSL reports whether source targets OpenGL ES shading language 3.00+.
func IsESSL(source string) bool {
	return strings.HasSuffix(Version(source), " es")
}

// StageSource injects the stage define into a combined source. The #version
// directive must stay the first statement, so the defines go right after it.
// fallbackVersion is used when the source declares none.
func StageSource(source string, stage Stage, fallbackVersion string) string {
	defines := "#define " + stage.define() + "\n#define PARAMETER_UNIFORM\n"

	if loc := versionRe.FindStringIndex(source); loc != nil {
		head := source[:loc[1]]
		if !strings.HasSuffix(head, "\n") {
			head += "\n"
		}
		return head + defines + source[loc[1]:]
	}

	var b strings.Builder
	if fallbackVersion != "" {
		b.WriteString("#version ")
		b.WriteString(fallbackVersion)
		b.WriteString("\n")
	}
	b.WriteString(defines)
	b.WriteString(source)
	return b.String()
}

// FrameCountValue applies a pass frame-count modulo. A modulo of zero leaves
// the count untouched.
func FrameCountValue(frameCount uint64, mod uint) uint64 {
	if mod == 0 {
		return frameCount
	}
	return frameCount % uint64(mod)
}
