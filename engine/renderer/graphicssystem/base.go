package graphicssystem

import (
	"fmt"
	"sync"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/badke/saberrender/engine/inventory"
	"github.com/cogentcore/webgpu/wgpu"
)

// Base is embedded by concrete GraphicsSystem implementations to get
// the ABI's bookkeeping (flags, declared inputs/outputs, an event
// inbox) for free; the embedding type supplies RegisterFlags,
// RegisterInputs, RegisterOutputs and RuntimeBindings itself.
type Base struct {
	name string

	flags           map[string]struct{}
	textureInputs   map[hashkey.HashKey]TextureInputDefault
	bufferInputs    map[hashkey.HashKey]struct{}
	dataInputs      map[hashkey.HashKey]struct{}
	textureOutputs  TextureOutputs
	bufferOutputs   BufferOutputs
	dataOutputs     DataOutputs

	eventMu sync.Mutex
	events  []Event
}

// Event is one entry in a GraphicsSystem's inbox.
type Event struct {
	Kind hashkey.HashKey
	Data any
}

// NewBase creates a Base for a GraphicsSystem identified by name.
func NewBase(name string) Base {
	return Base{
		name:          name,
		flags:         make(map[string]struct{}),
		textureInputs: make(map[hashkey.HashKey]TextureInputDefault),
		bufferInputs:  make(map[hashkey.HashKey]struct{}),
		dataInputs:    make(map[hashkey.HashKey]struct{}),
		textureOutputs: make(TextureOutputs),
		bufferOutputs:  make(BufferOutputs),
		dataOutputs:    make(DataOutputs),
	}
}

func (b *Base) ScriptName() string { return b.name }

// DeclareFlag records a recognized flag name. Call from RegisterFlags.
func (b *Base) DeclareFlag(name string) { b.flags[name] = struct{}{} }

// DeclareTextureInput records a texture input and its fallback. Call
// from RegisterInputs.
func (b *Base) DeclareTextureInput(name hashkey.HashKey, fallback TextureInputDefault) {
	b.textureInputs[name] = fallback
}

// DeclareBufferInput records a buffer input. Call from RegisterInputs.
func (b *Base) DeclareBufferInput(name hashkey.HashKey) { b.bufferInputs[name] = struct{}{} }

// DeclareDataInput records a data input. Call from RegisterInputs.
func (b *Base) DeclareDataInput(name hashkey.HashKey) { b.dataInputs[name] = struct{}{} }

func (b *Base) TextureInputs() map[hashkey.HashKey]TextureInputDefault { return b.textureInputs }
func (b *Base) BufferInputs() map[hashkey.HashKey]struct{}             { return b.bufferInputs }
func (b *Base) DataInputs() map[hashkey.HashKey]struct{}               { return b.dataInputs }

// SetTextureOutput, SetBufferOutput and SetDataOutput publish a
// concrete output. Call from RegisterOutputs.
func (b *Base) SetTextureOutput(name hashkey.HashKey, v inventory.InvPtr[*wgpu.Texture]) {
	b.textureOutputs[name] = v
}

func (b *Base) SetBufferOutput(name hashkey.HashKey, v *wgpu.Buffer) {
	b.bufferOutputs[name] = v
}

func (b *Base) SetDataOutput(name hashkey.HashKey, v any) {
	b.dataOutputs[name] = v
}

func (b *Base) TextureOutputs() TextureOutputs { return b.textureOutputs }
func (b *Base) BufferOutputs() BufferOutputs   { return b.bufferOutputs }
func (b *Base) DataOutputs() DataOutputs       { return b.dataOutputs }

// SetFlag checks name against the flags declared via DeclareFlag,
// panicking if it was never declared — the spec's "fatal if a flag
// isn't registered" contract. Base does not store the value; an
// embedding type that uses flag values overrides SetFlag and calls
// this first.
func (b *Base) SetFlag(name, value string) {
	if _, ok := b.flags[name]; !ok {
		panic(fmt.Sprintf("graphicssystem %q: flag %q was not registered", b.name, name))
	}
}

// PostEvent appends to this GS's inbox. Safe for concurrent callers —
// other GSs in later execution groups may call it from their own
// pre-render closures.
func (b *Base) PostEvent(kind hashkey.HashKey, data any) {
	b.eventMu.Lock()
	defer b.eventMu.Unlock()
	b.events = append(b.events, Event{Kind: kind, Data: data})
}

// DrainEvents returns and clears the inbox. Call from HandleEvents.
func (b *Base) DrainEvents() []Event {
	b.eventMu.Lock()
	defer b.eventMu.Unlock()
	pending := b.events
	b.events = nil
	return pending
}
