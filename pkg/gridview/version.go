// Package gridview exposes module-level metadata.
package gridview

// Version is the gridview module version.
const Version = "0.3.0"
