// Package validator checks decoded records before they are turned into
// entries.
//
// Callers depend on the Validator interface. V10Validator is backed by
// go-playground/validator v10 with English messages and two rules for OTP
// records: otpsecret (non-empty once separators are stripped) and
// otpalgorithm (SHA1, SHA256 or SHA512, case-insensitive).
package validator
