package filter

import "strings"

const versionSegmentWidth = 8

// ConvertVersionToRaw encodes [epoch:]major.minor.patch... as a fixed width
// digit string that sorts like the version: the epoch (default 0) followed by
// each segment zero padded to 8 digits. Segments longer than 8 digits are cut
// to 9. Returns "" for a malformed version.
func ConvertVersionToRaw(version string) string {
	converted := "0"
	if strings.Contains(version, ":") {
		if dot := strings.Index(version, "."); dot >= 0 && strings.Index(version, ":") > dot {
			return ""
		}
		parts := strings.Split(version, ":")
		converted = parts[0]
		version = parts[1]
	}

	segments := []string{version}
	if strings.Contains(version, ".") {
		segments = strings.Split(version, ".")
	}

	var b strings.Builder
	b.WriteString(converted)
	for _, segment := range segments {
		if isNaN(segment) {
			return ""
		}
		if len(segment) > versionSegmentWidth {
			segment = segment[:versionSegmentWidth+1]
		}
		if pad := versionSegmentWidth - len(segment); pad > 0 {
			b.WriteString(strings.Repeat("0", pad))
		}
		b.WriteString(segment)
	}
	return b.String()
}
