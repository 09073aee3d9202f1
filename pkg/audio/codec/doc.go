// ABOUTME: Audio codec package for block-streamed console audio encodings
// ABOUTME: Provides the Codec contract and PCM, IMA-ADPCM and DSP-ADPCM variants
// Package codec converts between 16-bit linear samples and the on-disk sample
// encodings used by streamed console audio containers.
//
// Supports: PCM16, PCM8 (unsigned, bias 128), signed PCM8, IMA-ADPCM,
// blocked IMA-ADPCM and DSP-ADPCM (GC-ADPCM).
//
// Every variant implements the Codec interface. Besides whole-buffer
// conversion (ToSamples / FromSamples) a codec exposes its encoded buffer as a
// sequence of fixed-size blocks so containers can interleave several channels
// block by block. Block geometry is computed identically for every variant:
//
//	blockCount       = ceil(dataSize / blockSize)
//	lastBlockSize    = dataSize % blockSize, or blockSize when that is zero
//	lastBlockSamples = numSamples % blockSamples, or blockSamples when that is zero
//
// Example:
//
//	c, err := codec.New(audio.EncodingDspAdpcm)
//	c.FromSamples(samples)
//	for i := 0; i < c.NumBlocks(0x2000, 0x3800); i++ {
//	    err = c.WriteBlock(w, i, 0x2000, 0x3800)
//	}
package codec
