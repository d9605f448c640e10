// Package store holds the two remote write targets of the handler: an S3
// bucket for the identifier blob and a DynamoDB table for the identifier
// record. Both are reached through the narrow writer interfaces declared
// here so the handler can be exercised without AWS.
//
// Calls are issued once. Retries are switched off in the session, so a failed
// write surfaces immediately as an *Error carrying the AWS error code.
package store
