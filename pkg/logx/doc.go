// Package logx configures classbook's structured logging.
//
// A small wrapper (logx.Logger) on top of zerolog keeps:
//   - Console output readable (short timestamp + short caller), on stderr so
//     stdout stays reserved for listings
//   - File output JSON-structured
//   - Level and sinks swappable at runtime through Service.Apply
package logx
