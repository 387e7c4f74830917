// Package otp generates and verifies one-time codes.
//
// Two algorithms are supported: RFC 6238 TOTP with a configurable hash,
// digit count and period, and the Steam Guard variant which uses a fixed
// 30 second period and a five character alphabet. Both are computed through
// github.com/pquerna/otp/hotp with an explicit counter.
package otp
