// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TexImageArgs are the glTexImage2D parameters for a texture format.
type TexImageArgs struct {
	InternalFormat int32
	Format         uint32
	Type           uint32
}

// TexImageFor maps a texture format to its GL allocation parameters.
// Only the formats the compositor allocates are supported.
func TexImageFor(format gputypes.TextureFormat) (TexImageArgs, error) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return TexImageArgs{
			InternalFormat: GLRGBA8,
			Format:         GLRGBA,
			Type:           GLUnsignedByte,
		}, nil
	default:
		return TexImageArgs{}, fmt.Errorf("gpu: no GL mapping for texture format %v", format)
	}
}

// RenderbufferFor maps a depth/stencil format to its GL internal format.
func RenderbufferFor(format gputypes.TextureFormat) (uint32, error) {
	switch format {
	case gputypes.TextureFormatDepth24PlusStencil8:
		return GLDepth24Stencil8, nil
	default:
		return 0, fmt.Errorf("gpu: no GL renderbuffer mapping for format %v", format)
	}
}
