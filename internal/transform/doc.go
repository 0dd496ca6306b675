// Package transform converts decoded banner images into their cached form.
//
// The pipeline, run by [Transform]:
//  1. Diagonal banners ([IsDiagonal]) are color keyed and un-rotated onto a
//     256×64 canvas ([Unrotate]).
//  2. The target size is computed by [TargetSize]: halve, snap to a power of
//     two, keep a floor of min(32, PowerOfTwo(original)).
//  3. Hot pink is made transparent ([ApplyColorKey]).
//  4. The image is resized with a box filter ([Zoom]).
//  5. The result is palettized ([Palettize]) or ordered-dithered to 5-5-5-1
//     ([OrderedDither]).
//
// All functions are pure: they never modify their input image.
package transform
