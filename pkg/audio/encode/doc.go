// ABOUTME: Raw audio export package
// ABOUTME: Writes 16-bit channel sets as headerless PCM
// Package encode exports audio without a container.
//
// Example:
//
//	err := encode.Raw(f, sound.PCM(), 16)
package encode
