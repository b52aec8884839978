// Package file provides a file-based configuration store.
//
// Configuration lives in a TOML file under the docquery config
// directory and is exposed as flat dot-notation keys. The settings
// binding in this package maps those keys onto domain.AppSettings,
// applying defaults for unset keys and environment overrides for API
// keys.
package file
