// Package mailgun wraps the Mailgun SDK for the one call this tool makes:
// posting a message to the sending domain.
//
// Only the API accept is checked: a 200 response with the provider's
// acknowledgement means the message was queued. Per-recipient delivery is not
// tracked. Failed responses surface as *APIError with the status code and a
// bounded copy of the response body.
package mailgun
