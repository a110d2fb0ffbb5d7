// Package notifier provides notification interfaces and implementations for newly listed shows.
//
// The email notifier formats one message covering every new show and submits
// it through the Mailgun API. A failed send is returned to the caller, never
// swallowed, so the caller can decline to advance its state and the same
// shows are offered again on the next run. The dry-run notifier prints the
// message instead of sending it.
package notifier
