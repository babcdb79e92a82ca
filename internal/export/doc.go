// Package export writes result sets for download: a spreadsheet with one row
// per question, and a canonical digest that identifies the exact records.
package export
