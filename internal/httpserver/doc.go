// Package httpserver runs the handler behind a plain HTTP listener for local
// development. Requests are converted to API Gateway proxy events and the
// handler's proxy responses are written back verbatim.
package httpserver
