// Package imageio moves images between files and raster buffers.
//
// Decoding and encoding go through github.com/disintegration/imaging, which
// also applies the EXIF orientation of JPEG files, so decoded images are
// always upright. WebP files can be read but not written.
//
// Decoded images are 8-bit BGRA with straight (non-premultiplied) alpha,
// delivered top row first. Collaborators that store rows bottom-up, such as
// BMP-style DIB buffers, convert at this boundary with RowOrder.
//
// # Caching
//
// ImageCache keeps decoded images keyed by path so repeated tool calls on
// the same file skip disk reads and decoding. It is safe for concurrent use.
package imageio
