/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package handle implements the weak-reference handle types exposed to
// applications (IoInterface, IoOutput, NetEntity). Rather than the cyclic
// parent/child shared-ownership the original design used, validity is
// tracked with an index + generation counter arena (Registry): a handle
// is valid exactly as long as its slot's generation has not advanced past
// the one recorded in the handle, giving O(1) dangling detection with no
// atomic reference counting in the hot path.
package handle

import "sync"

type slot struct {
	gen   uint64
	obj   any
	alive bool
}

// Registry is an index+generation arena of live objects (I/O handlers or
// entities). It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Insert stores obj in a free (or new) slot and returns its id and current
// generation.
func (r *Registry) Insert(obj any) (id uint64, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[id].obj = obj
		r.slots[id].alive = true
		return id, r.slots[id].gen
	}

	id = uint64(len(r.slots))
	r.slots = append(r.slots, slot{gen: 0, obj: obj, alive: true})
	return id, 0
}

// Reserve allocates a slot without an object yet, returning its id and
// generation. Use Fill once the object identified by that id has been
// constructed — the common pattern for components (like a TCP I/O handler)
// whose own identifier must be known before construction finishes.
func (r *Registry) Reserve() (id uint64, gen uint64) {
	return r.Insert(nil)
}

// Fill stores obj into a slot previously returned by Reserve.
func (r *Registry) Fill(id, gen uint64, obj any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id >= uint64(len(r.slots)) {
		return
	}
	if s := r.slots[id]; s.alive && s.gen == gen {
		r.slots[id].obj = obj
	}
}

// Remove retires id: the slot is cleared, its generation bumped so every
// outstanding handle referencing the old generation becomes invalid, and
// the slot is returned to the free list.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id >= uint64(len(r.slots)) || !r.slots[id].alive {
		return
	}

	r.slots[id].obj = nil
	r.slots[id].alive = false
	r.slots[id].gen++
	r.free = append(r.free, id)
}

// Get returns the object stored at (id, gen), or false if the slot has
// since been removed or reused under a new generation, or was reserved
// and not yet filled.
func (r *Registry) Get(id, gen uint64) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id >= uint64(len(r.slots)) {
		return nil, false
	}

	s := r.slots[id]
	if !s.alive || s.gen != gen || s.obj == nil {
		return nil, false
	}

	return s.obj, true
}

// IsValid reports whether (id, gen) still refers to a live object.
func (r *Registry) IsValid(id, gen uint64) bool {
	_, ok := r.Get(id, gen)
	return ok
}
