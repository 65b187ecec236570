// Package ftest provides small assertion helpers shared by this module's
// package-level tests, in place of a third-party assertion library.
package ftest
