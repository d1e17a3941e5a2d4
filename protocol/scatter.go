package protocol

// Scatter splits data into consecutive chunks of at most chunkSize bytes,
// preserving order. The final chunk carries the remainder. chunkSize must
// be at least 1.
func Scatter(data []byte, chunkSize int) ([][]byte, error) {
	if chunkSize < 1 {
		return nil, &RangeError{What: "chunk size", Value: int64(chunkSize), Min: 1}
	}

	var chunks [][]byte
	for i := 0; i < len(data); i += chunkSize {
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}

	return chunks, nil
}
