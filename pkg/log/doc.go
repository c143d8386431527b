// Package log provides warden's structured logging, a thin wrapper
// around zerolog shared by every other package.
package log
