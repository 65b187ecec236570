// Package flog is a small ring-buffered, permission-gated logger.
//
// Log entries are tagged with a short subsystem name and gated by a
// Permission, so call sites that might fire many times per audio block
// (device format renegotiation, DSP recompilation) can be silenced without
// removing the call. A package-level central Logger backs the free
// functions Log/Logf/Write/Tail; tests construct their own instance with
// NewLogger so they don't interfere with each other.
package flog
