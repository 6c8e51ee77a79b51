//go:build scopedebug

package assert

// Enabled turns on the internal consistency checks. Build with
// -tags scopedebug to enable them.
const Enabled = true
