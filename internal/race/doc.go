// Package race provides the race and stage types shared by the cycling
// calendar pipeline.
//
// The race package interprets the compact values found on the calendar list
// page: date-range tokens such as "28.12 - 03.01" (with year rollover), race
// names that must be turned into detail-page slugs, and the free-form text of
// stage rows, which is classified into stages, rest days or verbatim labels.
package race
