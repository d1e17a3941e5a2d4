package debugger

// Progress describes an in-flight multi-burst transfer.
// Passed to ProgressCallback after every completed burst.
type Progress struct {
	// Op is "read" or "write".
	Op string

	// BytesDone is the number of bytes transferred so far.
	BytesDone int

	// BytesTotal is the total size of the transfer.
	BytesTotal int
}

// ProgressCallback is called after each completed burst of a Read or Write.
// Implementations should return quickly; the transfer blocks while the
// callback runs.
type ProgressCallback func(Progress)
