//go:build !scopedebug

package assert

const Enabled = false
