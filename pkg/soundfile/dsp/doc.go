// ABOUTME: DSP container package
// ABOUTME: Reads and writes big-endian DSP-ADPCM files, mono or block-interleaved multi-channel
// Package dsp stores DSP-ADPCM sounds in the DSP file format.
//
// Every channel has a 0x60 byte big-endian header carrying its sample count,
// loop points (as nibble addresses) and decoder context. A plain DSP file is
// one channel followed by its frames. Extended files record a channel count
// and block size in every header and interleave the channels block by block.
package dsp
