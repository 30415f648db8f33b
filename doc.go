// Package phonemeta is a data-driven phone-number classification, parsing,
// and formatting runtime. It loads a versioned metadata blob once into an
// immutable Registry and serves validity checks, typed classification,
// free-form text parsing, and national/international formatting from it.
//
// Framework
//
// The runtime is split into small single-purpose packages: digits (the
// packed digit-sequence representation), fsm (the byte-coded matcher),
// callingcode (the static recognised-calling-code mask and the
// PhoneNumber data type), metadata (blob decoding and the Registry),
// classify (typed classifier/matcher wrappers), phoneparse (free-form
// text parsing), and phoneformat (national/international rendering).
// This package is a thin facade over all of them.
//
// Loading data
//
// Build a Runtime from a decoded blob with New, then call its methods.
// There is no global state: every Runtime is independent and safe for
// concurrent use once constructed.
package phonemeta
