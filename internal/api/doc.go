// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts multipart uploads and form parameters to the
// question service and renders results as a spreadsheet download or JSON.
package api
