// Package extractors provides implementations of the Extractor interface
// for various document formats. Each extractor knows how to parse one
// format into ordered, non-empty page texts.
//
// Extractors are registered with the ExtractorRegistry at startup.
package extractors
