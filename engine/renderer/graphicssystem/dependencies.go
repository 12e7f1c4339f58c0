package graphicssystem

import (
	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/inventory"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureInputDefault names the fallback texture substituted for an
// unresolved texture input.
type TextureInputDefault int

const (
	DefaultNone TextureInputDefault = iota
	DefaultOpaqueWhite
	DefaultTransparentBlack
	DefaultOpaqueWhiteCube
	DefaultTransparentBlackCube
)

// TextureDependencies maps a GraphicsSystem's input name to the
// resolved InvPtr supplying it: either the producer's declared output,
// or the input's registered default.
type TextureDependencies map[hashkey.HashKey]inventory.InvPtr[*wgpu.Texture]

// BufferDependencies maps a GraphicsSystem's buffer input name to the
// resolved producer buffer, nil if unresolved.
type BufferDependencies map[hashkey.HashKey]*wgpu.Buffer

// DataDependencies maps a GraphicsSystem's data input name to the
// resolved producer's data pointer, nil if unresolved. Go interfaces
// already carry a dynamic type alongside the value, so `any` is the
// natural replacement for the spec's type-erased `const void*` scheme —
// a consumer type-asserts to the type it expects and panics on
// mismatch, exactly as the spec's Design Notes prescribe.
type DataDependencies map[hashkey.HashKey]any

// TextureOutputs maps a GraphicsSystem's declared output name to the
// handle it produced this pipeline build, for later GSs to consume.
type TextureOutputs map[hashkey.HashKey]inventory.InvPtr[*wgpu.Texture]

// BufferOutputs maps a GraphicsSystem's declared output name to the
// buffer it produced.
type BufferOutputs map[hashkey.HashKey]*wgpu.Buffer

// DataOutputs maps a GraphicsSystem's declared output name to the data
// it produced.
type DataOutputs map[hashkey.HashKey]any
