package dataset

import "strings"

// instrumentPatterns identify files that keep their own name when they
// arrive inside an archive.
var instrumentPatterns = []string{"fh", "pd"}

// IsInstrumentFile reports whether name carries an instrument pattern
// (FH or PD, any case).
func IsInstrumentFile(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range instrumentPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// RegistryName decides the name a file is registered under. Files extracted
// from an archive take the archive's name unless they carry an instrument
// pattern. An empty container means the file was not in an archive.
func RegistryName(fileName, container string) string {
	if container == "" || IsInstrumentFile(fileName) {
		return fileName
	}
	return container
}
