// Package handler implements the function's invocation handler. A health
// route answers immediately; every other invocation generates an identifier,
// writes it to S3 and then to DynamoDB, and reports the outcome as an API
// Gateway proxy response.
package handler
