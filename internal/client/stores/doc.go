// Package stores holds the client-side state of BhojanBox: the cart, the
// order history and the signed-in session.
//
// Each store owns one slice of state and mutates it only through its
// actions. An action validates its input, issues the request without holding
// the store lock and then applies the outcome as one locked transition, so
// transitions land in completion order and a reader never sees a torn state.
// Subscribers receive a deep copy of the new state after every transition.
//
// Remote failures leave the state unchanged apart from LastError and are
// returned to the caller. Stores never retry; resilience belongs to the
// resource client.
package stores
