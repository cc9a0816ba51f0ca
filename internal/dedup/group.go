// Package dedup partitions same-size buckets into equivalence classes and
// materialises links between them, per spec.md §4.4, then drives the whole
// per-root pipeline, per spec.md §4.6.
package dedup

import "github.com/jsiebens/dedup/internal/record"

// class is one equivalence class within a bucket: a representative and its
// destinations, all sharing (size, primary digest, optional secondary
// digest).
type class struct {
	rep   *record.File
	dests []*record.File
}

// partition repeatedly pops a representative from bucket and gathers every
// remaining record whose digest tuple matches it, until fewer than two
// records remain, per spec.md §4.4 steps 1-3. Records without a digest
// (failed hashing) are skipped entirely — they may not participate as
// either representative or destination.
func partition(bucket []*record.File) []class {
	var pending []*record.File
	for _, f := range bucket {
		if f.HasDigest {
			pending = append(pending, f)
		}
	}

	var classes []class
	for len(pending) > 1 {
		rep := pending[0]
		rest := pending[1:]

		var dests []*record.File
		var remaining []*record.File
		for _, f := range rest {
			if sameDigest(rep, f) {
				dests = append(dests, f)
			} else {
				remaining = append(remaining, f)
			}
		}

		if len(dests) > 0 {
			classes = append(classes, class{rep: rep, dests: dests})
		}
		pending = remaining
	}
	return classes
}

func sameDigest(a, b *record.File) bool {
	if a.Size != b.Size || a.Digest != b.Digest {
		return false
	}
	if a.HasLong != b.HasLong {
		return false
	}
	if a.HasLong && a.LongDigest != b.LongDigest {
		return false
	}
	return true
}
