// Package transform provides geometric operations on raster images:
// nearest and bilinear resizing, affine warping, flips, rotations by
// multiples of 90 degrees, and cropping.
//
// Every function returns a freshly allocated image and leaves its source
// untouched. Coordinates are rounded half away from zero.
//
// # Sampling
//
// Resize maps destination pixel (x, y) to source coordinate
// (x*srcW/dstW, y*srcH/dstH). Nearest rounds that coordinate; bilinear
// blends the four pixels at its floor and ceiling, clamped to the image.
//
// WarpPerspective maps destination pixels through the inverse of the
// transform. With InterpNearest, destination pixels whose source falls
// outside the image are left at the zero pixel (transparent black for
// BGRA). With InterpBilinear, samples are clamped to the nearest edge.
package transform
