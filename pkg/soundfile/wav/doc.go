// ABOUTME: RIFF/WAV container package
// ABOUTME: Reads and writes 8-bit and 16-bit PCM wave files with smpl loop points
// Package wav stores sounds as standard RIFF/WAV files.
//
// Only integer PCM at 8 or 16 bits per sample is accepted. Samples are
// interleaved one sample per block, so channels stream through the same
// block interface every codec implements. A loop is stored in a smpl chunk.
package wav
