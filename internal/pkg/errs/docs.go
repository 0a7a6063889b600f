// Package errs provides standardized error types for the local-office
// dispatch application. It implements a consistent pattern for error
// creation, formatting, and unwrapping that is used throughout the
// application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is can match the sentinel
//
// Beyond the generic validation errors, the package carries the dispatch
// error taxonomy: ConflictError for closed ordering windows, adapter
// resolution and provider contract violations, webhook authentication
// failures, and AdapterHTTPError which wraps every transport failure with a
// retryable flag so upstream retry logic stays provider-agnostic.
package errs
