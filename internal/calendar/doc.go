// Package calendar holds the day events produced for each race and encodes
// them as an iCalendar (.ics) file of all-day VEVENTs.
package calendar
