// Package io reads and writes interval records as CSV.
//
// # Format
//
// The first row is a header and is skipped. Every following row has five
// columns, identified by position:
//
//	Start,End,Buyer,Table,Rows
//	2017-01-01 10:00:00,2017-01-01 10:01:00,acme,orders,5
//	2017-01-01 10:00:30,2017-01-01 10:02:00,acme,lines,10
//
// Start and End use the layout [DateFormat] ("2006-01-02 15:04:05", 24-hour
// clock, no zone; times are read as UTC). Rows is a non-negative integer.
//
// # Errors
//
// Every problem is reported as an INVALID_CSV error naming the line of the
// file it was found on, for example:
//
//	INVALID_CSV: line 3: start must be in the format 2006-01-02 15:04:05, not "10am"
//
// Rows that parse but break a record invariant (end before start, negative
// rows, empty labels) are rejected the same way, with the INVALID_RECORD
// error as the cause.
//
// # Round Trip
//
// [WriteCSV] emits the same header and layout, so ExportCSV followed by
// ImportCSV returns equal records.
package io
