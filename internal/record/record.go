// Package record holds the in-memory representation of candidate files
// produced by a directory scan, bucketed by size.
package record

// File is one candidate regular file discovered during a scan.
//
// A File is only created for a regular, non-symlink file with Size > 0
// residing on the same device as the scan root. Digest is populated by the
// hasher before the record is eligible for grouping; LongDigest is only set
// in paranoid mode and, if set for any record in a bucket, must be set for
// every record in that bucket.
type File struct {
	// Path is relative to the scan root. Bytes are preserved verbatim; no
	// Unicode normalisation is applied.
	Path string
	Size uint64
	// Mtime is seconds since the Unix epoch.
	Mtime int64
	Dev   uint64
	Ino   uint64

	Digest     [32]byte
	HasDigest  bool
	LongDigest [32]byte
	HasLong    bool
}

// Index buckets File records by size. It is the in-memory SizeIndex of
// spec.md §3: a flat map, no cyclic structure.
type Index map[uint64][]*File

// Add inserts a record into its size bucket, in scan (enumeration) order.
func (idx Index) Add(f *File) {
	idx[f.Size] = append(idx[f.Size], f)
}

// RetainDuplicateBuckets discards every bucket with fewer than two entries.
// Single-member buckets can never yield a link and would only waste hashing
// effort downstream.
func (idx Index) RetainDuplicateBuckets() {
	for size, bucket := range idx {
		if len(bucket) < 2 {
			delete(idx, size)
		}
	}
}

// Len returns the total number of records across every retained bucket.
func (idx Index) Len() int {
	n := 0
	for _, bucket := range idx {
		n += len(bucket)
	}
	return n
}
