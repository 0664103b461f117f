// Package storage writes generated calendars into the output directory.
//
// Files are written through a temporary file in the same directory and
// renamed into place, so a failed run never leaves a truncated calendar
// behind. A leading "~/" in the directory is expanded to the home directory.
package storage
