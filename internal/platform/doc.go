// Package platform provides the low-level Linux operations needed to isolate
// a process in fresh namespaces and switch it into a new root filesystem.
// Since superchroot is Linux-specific, `unix` functions are used
// preferentially over their `os` equivalent for consistency.
package platform
