// Package registry tracks which live connections have joined and under which
// display name. It is the single source of truth for the online roster.
//
// A Registry is created once per process and handed to every component that
// needs it; there is no package-level instance.
package registry
