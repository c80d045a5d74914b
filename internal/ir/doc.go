// Package ir provides the primitive value representation shared by the
// schema, query and storage layers.
//
// ir imports nothing internal except errors. It defines:
//   - Kind, the five attribute value kinds (string, integer, double,
//     boolean, datetime)
//   - Value, a sealed interface over typed primitive values
//   - Literal, the TypeQL rendering of a Value
//   - MarshalCanonical and Fingerprint, used for deterministic identity of
//     compiled fragments and schema snapshots
//
// Doubles must be finite. Datetimes are rendered in UTC.
package ir
