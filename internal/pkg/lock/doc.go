// Package lock provides keyed mutual exclusion backed by Redis.
//
// It is intended for short critical sections, such as serializing concurrent
// verification attempts against the same email address.
package lock
