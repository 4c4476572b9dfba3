// Package otp generates one-time numeric codes for email challenge flows.
package otp
