package workspace

// isBinaryContent checks whether content looks like binary data by scanning
// the first sampleSize bytes for null bytes. UTF-16 and UTF-32 BOMs are
// treated as text so wide-encoded files are not misclassified.
func isBinaryContent(content []byte, sampleSize int) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false // UTF-16 BOM
		}
	}
	if len(content) >= 4 {
		if (content[0] == 0xFF && content[1] == 0xFE && content[2] == 0x00 && content[3] == 0x00) ||
			(content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF) {
			return false // UTF-32 BOM
		}
	}

	n := min(len(content), sampleSize)
	for i := range n {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
