package config

// Version is the current Zephyr interpreter version, set at build time
// via -ldflags.
var Version = "0.1.0"

// SourceFileExt is the canonical Zephyr source extension.
const SourceFileExt = ".zph"

// CompiledFileExt is the compiled-bytecode extension.
const CompiledFileExt = ".zphc"

// SourceFileExtensions are the source and compiled extensions that
// TrimSourceExt and HasSourceExt recognize.
var SourceFileExtensions = []string{SourceFileExt, CompiledFileExt}

// TrimSourceExt removes a recognized source or compiled extension from
// a filename, used to derive a bundle's output stem.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source or
// compiled extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
