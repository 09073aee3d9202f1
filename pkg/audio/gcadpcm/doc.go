// ABOUTME: GC-ADPCM encoder package
// ABOUTME: Designs predictor coefficient tables and packs 14-sample frames
// Package gcadpcm encodes 16-bit samples as GC-ADPCM (DSP-ADPCM) frames.
//
// Encoding runs in two passes. Coefficients designs eight second-order
// predictors by clustering per-window linear prediction models. Encode then
// picks, for every 14-sample frame, the predictor and scale that minimize the
// squared reconstruction error, using the exact integer decoder formula so
// the encoder's history matches what a decoder will see.
//
// Example:
//
//	data, coefs := gcadpcm.Encode(samples, 0, 0, gcadpcm.DefaultSettings())
package gcadpcm
