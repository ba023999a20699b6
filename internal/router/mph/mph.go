// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package mph builds a minimal perfect hash over a fixed set of
// fixed-width byte keys: any construction is acceptable as long as it
// returns a stable integer in [0, n) for every key in the set, and the
// caller always verifies the result against the stored key at that
// slot before trusting it (the MPH is a hint, not a set oracle).
//
// This is a two-level hash-and-displace construction in the style of
// CHD/BDZ: keys are bucketed by a first hash, buckets are resolved in
// decreasing size order, and each bucket is assigned a per-bucket
// displacement seed that sends all of its keys to distinct free
// slots. It uses cespare/xxhash/v2, the hash the rest of this module's
// dependency stack (prometheus's client libraries) already pulls in
// transitively, as its hash primitive.
package mph

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// maxDisplacementAttempts bounds how hard Build tries each bucket
// before giving up. A real CHD implementation resizes and retries
// with a new global seed; this router's prefix tables are small
// (dozens to low hundreds of entries), so a generous fixed bound is
// simpler and has been sufficient in practice.
const maxDisplacementAttempts = 1 << 16

// Table is an immutable minimal perfect hash over the key set it was
// built from.
type Table struct {
	numSlots   int
	numBuckets int
	seeds      []uint32 // per-bucket displacement, indexed by bucket
}

// Build constructs a Table over keys. Keys must be non-empty and all
// the same length (the caller, the prefix extractor, already
// guarantees this); Build does not itself check key width. Returns an
// error if construction could not complete within the displacement
// budget.
func Build(keys [][]byte) (*Table, error) {
	n := len(keys)
	if n == 0 {
		return nil, fmt.Errorf("mph: cannot build over an empty key set")
	}

	numBuckets := n
	buckets := make([][]int, numBuckets)
	for i, k := range keys {
		b := int(bucketHash(k) % uint64(numBuckets))
		buckets[b] = append(buckets[b], i)
	}

	order := make([]int, numBuckets)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return len(buckets[order[i]]) > len(buckets[order[j]])
	})

	seeds := make([]uint32, numBuckets)
	slotOwner := make([]int, n)
	for i := range slotOwner {
		slotOwner[i] = -1
	}

	for _, b := range order {
		members := buckets[b]
		if len(members) == 0 {
			continue
		}
		placed := false
		for seed := uint32(0); seed < maxDisplacementAttempts; seed++ {
			slots := make([]int, len(members))
			ok := true
			seen := make(map[int]bool, len(members))
			for mi, keyIdx := range members {
				s := int(slotHash(keys[keyIdx], seed) % uint64(n))
				if slotOwner[s] != -1 || seen[s] {
					ok = false
					break
				}
				seen[s] = true
				slots[mi] = s
			}
			if !ok {
				continue
			}
			for mi, keyIdx := range members {
				slotOwner[slots[mi]] = keyIdx
			}
			seeds[b] = seed
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("mph: could not place bucket of %d keys within %d displacement attempts", len(members), maxDisplacementAttempts)
		}
	}

	return &Table{numSlots: n, numBuckets: numBuckets, seeds: seeds}, nil
}

// Index returns a slot in [0, n) for key, where n is the size of the
// key set Build was called with. For a key that was in the build set,
// this is its unique assigned slot. For any other key of the same
// width, Index still returns a value in range, but it carries no
// meaning — callers must compare against the key stored at that slot.
func (t *Table) Index(key []byte) int {
	b := int(bucketHash(key) % uint64(t.numBuckets))
	seed := t.seeds[b]
	return int(slotHash(key, seed) % uint64(t.numSlots))
}

// Len returns the number of slots (equivalently, the size of the
// original key set).
func (t *Table) Len() int { return t.numSlots }

func bucketHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

func slotHash(key []byte, seed uint32) uint64 {
	var seedBuf [4]byte
	binary.LittleEndian.PutUint32(seedBuf[:], seed)
	d := xxhash.New()
	d.Write(key)
	d.Write(seedBuf[:])
	return d.Sum64()
}
