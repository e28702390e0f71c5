// Package events provides types and interfaces for publishing domain events.
//
// The completion ledger publishes an event after every committed completion
// change so that other components (notifications, analytics) can react
// without the ledger depending on them.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
