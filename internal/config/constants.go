// Package config holds build-time constants shared by the CLI and the
// embeddable API: the tool's own version string and the source file
// conventions the loader and build cache key off of.
package config

// Version is the current asyncscript analyser version, set at build time
// via -ldflags.
var Version = "0.1.0"

// SourceFileExtensions are the recognized extensions for a compilation
// unit; TrimSourceExt and HasSourceExt match against these.
var SourceFileExtensions = []string{".as", ".asyncscript"}

// TrimSourceExt removes any recognized source extension from a filename,
// returning the input unchanged if none matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
