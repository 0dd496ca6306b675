// Package texture defines the boundary between the banner cache and the
// renderer that turns cached banners into textures.
//
// The cache never builds textures itself. It hands a data-only [Banner] to a
// [Display] and registers the returned [Resource] with a [Manager] under an
// [ID]. Tests and the inspection server provide their own implementations.
package texture
