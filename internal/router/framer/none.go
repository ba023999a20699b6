// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package framer

// NoneFramer treats each read as a single message, the degenerate
// framer used when a port has no protocol configured.
type NoneFramer struct{}

func (f *NoneFramer) Process(data []byte) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, nil
	}
	return len(data), data, nil
}

// LeftoverLen always reports 0: NoneFramer carries no state across calls.
func (f *NoneFramer) LeftoverLen() int { return 0 }
