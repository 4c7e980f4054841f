// Package sanitizer provides input normalization for facility data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings or empty slices rather than errors.
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Labels (amenities, features, bed types): Lowercase, non-letter/digit
//     runs collapsed to underscores - "Air Conditioning" becomes "air_conditioning"
//   - Slices: Remove duplicates and empty values after normalization
package sanitizer
